package main

import (
	"testing"

	"github.com/go-theft-auto/imbridge/inspect"
)

func TestVehicleEngineIsSubObject(t *testing.T) {
	v := &Vehicle{Engine: &Engine{Power: 450}}
	for _, f := range inspect.Describe(v) {
		if f.Name != "Engine" {
			continue
		}
		if f.Kind != inspect.KindNested {
			t.Fatalf("Engine kind = %v, want Nested", f.Kind)
		}
		if f.Value() != v.Engine {
			t.Error("Engine getter does not return the engine")
		}
		return
	}
	t.Fatal("Engine field not described")
}
