package collector

import (
	"errors"
	"testing"
)

func TestPolicyHandleNotSet(t *testing.T) {
	p := &policyHandle{}
	_, _, _, err := p.invoke([]float32{0})
	if !errors.Is(err, ErrPolicyNotSet) {
		t.Fatalf("invoke on unset handle: err=%v, want ErrPolicyNotSet", err)
	}
}

func TestPolicyHandleSetAndClear(t *testing.T) {
	p := &policyHandle{}
	p.set(func(obs []float32) (int, float32, float32, error) {
		return 3, 0.5, 1.5, nil
	})

	action, logProb, value, err := p.invoke([]float32{0})
	if err != nil || action != 3 || logProb != 0.5 || value != 1.5 {
		t.Fatalf("invoke after set: got (%d,%v,%v,%v)", action, logProb, value, err)
	}

	p.clear()
	_, _, _, err = p.invoke([]float32{0})
	if !errors.Is(err, ErrPolicyNotSet) {
		t.Fatalf("invoke after clear: err=%v, want ErrPolicyNotSet", err)
	}
}

func TestPolicyHandleRecoversPanic(t *testing.T) {
	p := &policyHandle{}
	p.set(func(obs []float32) (int, float32, float32, error) {
		panic("boom")
	})

	_, _, _, err := p.invoke([]float32{0})
	if err == nil {
		t.Fatal("invoke did not surface the panic as an error")
	}
}
