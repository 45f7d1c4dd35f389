package bot

import (
	"errors"
	"testing"
)

func TestBot_InitModules_ReturnsInitError(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})

	expectedErr := errors.New("init failed")
	b.modules = []Module{&stubModule{name: "broken", initErr: expectedErr}}

	err := b.initModules()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected wrapped init error, got %v", err)
	}
}

func TestBot_InitModules_CallsInit(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})

	mod := &stubModule{name: "tracking"}
	b.modules = []Module{mod}

	if err := b.initModules(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mod.initCalled {
		t.Error("expected Init to be called")
	}
}

func TestBot_Stop_ShutsDownModules(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})

	mod := &stubModule{name: "tracking"}
	b.modules = []Module{mod}

	if err := b.Stop(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mod.shutCalled {
		t.Error("expected Shutdown to be called")
	}
}

func TestBot_Stop_ContinuesAfterShutdownError(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})

	first := &stubModule{name: "broken", shutErr: errors.New("shutdown failed")}
	second := &stubModule{name: "healthy"}
	b.modules = []Module{first, second}

	if err := b.Stop(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.shutCalled {
		t.Error("expected later modules to still be shut down")
	}
}
