package observability

import (
	"context"
	"testing"
	"time"
)

type testSynthesisHooks struct {
	starts  int
	dropped int
}

func (h *testSynthesisHooks) OnSynthesisStart(_ context.Context, _, _, _ int) { h.starts++ }
func (h *testSynthesisHooks) OnSynthesisComplete(context.Context, int, int, time.Duration, error) {
}
func (h *testSynthesisHooks) OnEdgeDropped(_ context.Context, _, _ string)                  { h.dropped++ }
func (h *testSynthesisHooks) OnRenderComplete(context.Context, string, time.Duration, error) {}

type testCacheHooks struct{ hits int }

func (h *testCacheHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *testCacheHooks) OnCacheMiss(context.Context, string)     {}
func (h *testCacheHooks) OnCacheSet(context.Context, string, int) {}

type testServerHooks struct{}

func (testServerHooks) OnRequest(context.Context, string, string)                      {}
func (testServerHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopSynthesisHooks{}
	s.OnSynthesisStart(ctx, 1, 5, 4)
	s.OnSynthesisComplete(ctx, 1, 20, time.Second, nil)
	s.OnEdgeDropped(ctx, "api", "ghost")
	s.OnRenderComplete(ctx, "svg", time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "doc")
	c.OnCacheMiss(ctx, "doc")
	c.OnCacheSet(ctx, "doc", 1024)

	h := NoopServerHooks{}
	h.OnRequest(ctx, "POST", "/api/synthesize")
	h.OnResponse(ctx, "POST", "/api/synthesize", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Synthesis().(NoopSynthesisHooks); !ok {
		t.Error("Synthesis() should return NoopSynthesisHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	customSynth := &testSynthesisHooks{}
	SetSynthesisHooks(customSynth)
	if Synthesis() != customSynth {
		t.Error("SetSynthesisHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	custom := testServerHooks{}
	SetServerHooks(custom)
	if Server() != custom {
		t.Error("SetServerHooks should set custom hooks")
	}

	Reset()
	if _, ok := Synthesis().(NoopSynthesisHooks); !ok {
		t.Error("Reset() should restore NoopSynthesisHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testSynthesisHooks{}
	SetSynthesisHooks(custom)
	SetSynthesisHooks(nil)

	if Synthesis() != custom {
		t.Error("SetSynthesisHooks(nil) should be ignored")
	}

	Reset()
}
