package langdetect

import (
	"testing"
)

func BenchmarkDetectElixir(b *testing.B) {
	code := []byte(`defmodule Greeter do
  def hello(name), do: "Hello, #{name}!"
end`)
	b.ResetTimer()
	for range b.N {
		Detect(code)
	}
}

func BenchmarkDetectClassifier(b *testing.B) {
	code := []byte(`SELECT id, name FROM users WHERE active = true ORDER BY name;`)
	b.ResetTimer()
	for range b.N {
		Detect(code)
	}
}

func BenchmarkDetectEmpty(b *testing.B) {
	b.ResetTimer()
	for range b.N {
		Detect(nil)
	}
}
