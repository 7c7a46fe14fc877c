package services

import (
	"context"
	"testing"

	"github.com/lichtwerk/api/internal/domain"
	"github.com/lichtwerk/api/internal/repositories"
)

func TestSystemStatusDegradesOnDisconnectedBoard(t *testing.T) {
	health, err := repositories.NewDependencyHealthRepository([]repositories.DependencyCheck{
		{Name: "firestore", Check: func(context.Context) error { return nil }},
	})
	if err != nil {
		t.Fatalf("NewDependencyHealthRepository: %v", err)
	}

	source := &fallbackSource{state: domain.SyncState{Connected: false, LastError: "status 502"}}
	svc, err := NewSystemService(SystemServiceDeps{Health: health, Prices: source})
	if err != nil {
		t.Fatalf("NewSystemService: %v", err)
	}

	status, err := svc.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Health.Status != domain.HealthStatusDegraded {
		t.Fatalf("status = %s, want degraded with the board disconnected", status.Health.Status)
	}
	if status.Sync.LastError != "status 502" {
		t.Fatalf("sync = %+v", status.Sync)
	}

	source.state.Connected = true
	source.state.LastError = ""
	status, err = svc.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Health.Status != domain.HealthStatusOK {
		t.Fatalf("status = %s, want ok with the board connected", status.Health.Status)
	}
}
