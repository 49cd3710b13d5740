package store

import (
	"testing"
	"time"

	"github.com/desertthunder/tvx/internal/models"
)

func TestOverlayManager(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		overlay := NewOverlayManager(nil, 0)

		state := overlay.snapshot()
		if !state.SidebarOpen {
			t.Error("expected sidebar open by default")
		}
		if state.Toast != nil || state.Modal != nil {
			t.Error("expected no toast or modal initially")
		}
		if overlay.duration != DefaultToastDuration {
			t.Errorf("expected default duration, got %v", overlay.duration)
		}
	})

	t.Run("ShowToast", func(t *testing.T) {
		t.Run("records message and kind", func(t *testing.T) {
			overlay := NewOverlayManager(nil, time.Minute)

			overlay.ShowToast("Playlist created", models.ToastSuccess)

			toast := overlay.snapshot().Toast
			if toast == nil {
				t.Fatal("expected a toast")
			}
			if toast.Message != "Playlist created" || toast.Kind != models.ToastSuccess {
				t.Errorf("unexpected toast %+v", toast)
			}
		})

		t.Run("replaces the current toast", func(t *testing.T) {
			overlay := NewOverlayManager(nil, time.Minute)

			overlay.ShowToast("first", models.ToastInfo)
			overlay.ShowToast("second", models.ToastError)

			toast := overlay.snapshot().Toast
			if toast == nil || toast.Message != "second" {
				t.Fatalf("expected second toast to win, got %+v", toast)
			}
		})

		t.Run("auto-dismisses after the duration", func(t *testing.T) {
			overlay := NewOverlayManager(nil, 10*time.Millisecond)

			overlay.ShowToast("gone soon", models.ToastInfo)
			time.Sleep(50 * time.Millisecond)

			if overlay.snapshot().Toast != nil {
				t.Error("expected toast to expire")
			}
		})

		t.Run("stale timer cannot dismiss a newer toast", func(t *testing.T) {
			overlay := NewOverlayManager(nil, 20*time.Millisecond)

			overlay.ShowToast("first", models.ToastInfo)
			time.Sleep(10 * time.Millisecond)
			overlay.ShowToast("second", models.ToastInfo)
			time.Sleep(15 * time.Millisecond)

			// The first toast's deadline has passed; the second is still live.
			toast := overlay.snapshot().Toast
			if toast == nil || toast.Message != "second" {
				t.Fatalf("expected second toast to survive, got %+v", toast)
			}
		})
	})

	t.Run("DismissToast clears ahead of the timer", func(t *testing.T) {
		overlay := NewOverlayManager(nil, time.Minute)

		overlay.ShowToast("dismiss me", models.ToastInfo)
		overlay.DismissToast()

		if overlay.snapshot().Toast != nil {
			t.Error("expected toast cleared")
		}
	})

	t.Run("modals", func(t *testing.T) {
		t.Run("show and close", func(t *testing.T) {
			overlay := NewOverlayManager(nil, 0)

			overlay.ShowModal(&Modal{Kind: "confirm-delete", TargetID: "p1"})
			if modal := overlay.snapshot().Modal; modal == nil || modal.TargetID != "p1" {
				t.Fatalf("expected modal for p1, got %+v", modal)
			}

			overlay.CloseModal()
			if overlay.snapshot().Modal != nil {
				t.Error("expected modal closed")
			}
		})

		t.Run("modals never stack", func(t *testing.T) {
			overlay := NewOverlayManager(nil, 0)

			overlay.ShowModal(&Modal{Kind: "playlist-form"})
			overlay.ShowModal(&Modal{Kind: "confirm-delete", TargetID: "p2"})

			modal := overlay.snapshot().Modal
			if modal == nil || modal.Kind != "confirm-delete" {
				t.Fatalf("expected replacement modal, got %+v", modal)
			}
		})

		t.Run("toast and modal are independent", func(t *testing.T) {
			overlay := NewOverlayManager(nil, time.Minute)

			overlay.ShowToast("note", models.ToastInfo)
			overlay.ShowModal(&Modal{Kind: "channel-form"})
			overlay.CloseModal()

			if overlay.snapshot().Toast == nil {
				t.Error("expected toast to survive modal close")
			}
		})
	})

	t.Run("ToggleSidebar flips the flag", func(t *testing.T) {
		overlay := NewOverlayManager(nil, 0)

		overlay.ToggleSidebar()
		if overlay.snapshot().SidebarOpen {
			t.Error("expected sidebar closed after toggle")
		}
		overlay.ToggleSidebar()
		if !overlay.snapshot().SidebarOpen {
			t.Error("expected sidebar open after second toggle")
		}
	})

	t.Run("publishes on every mutation", func(t *testing.T) {
		published := 0
		overlay := NewOverlayManager(func() { published++ }, time.Minute)

		overlay.ShowToast("a", models.ToastInfo)
		overlay.DismissToast()
		overlay.ShowModal(&Modal{Kind: "x"})
		overlay.CloseModal()
		overlay.ToggleSidebar()

		if published != 5 {
			t.Errorf("expected 5 publishes, got %d", published)
		}
	})
}
