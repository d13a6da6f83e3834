package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk/internal/domain"
)

func newBadgeService(enrRepo *fakeEnrollmentRepo, evRepo *fakeEventRepo, printer *fakePrinter, auditor *fakeAuditor) domain.BadgeService {
	return NewBadgeService(enrRepo, evRepo, printer, auditor, testLogger(), time.Second)
}

func TestBadgeService_PrintBadges(t *testing.T) {
	ctx := context.Background()

	setup := func() (*fakeEnrollmentRepo, *fakeEventRepo) {
		enrRepo := newFakeEnrollmentRepo()
		enrRepo.byID["enr-1"] = &domain.Enrollment{
			ID: "enr-1", EventID: "ev-1",
			AttendeeName: "Maria Souza", CompanyName: "Acme", Position: "CTO",
		}
		enrRepo.byID["enr-2"] = &domain.Enrollment{
			ID: "enr-2", EventID: "ev-1",
			AttendeeName: "João Lima",
		}
		evRepo := newFakeEventRepo()
		evRepo.events["ev-1"] = &domain.Event{ID: "ev-1"}
		return enrRepo, evRepo
	}

	t.Run("builds one badge per enrollment with the id as QR", func(t *testing.T) {
		enrRepo, evRepo := setup()
		printer := &fakePrinter{}
		auditor := &fakeAuditor{}
		svc := newBadgeService(enrRepo, evRepo, printer, auditor)

		printed, err := svc.PrintBadges(ctx, "admin-1", "ev-1", []string{"enr-1", "enr-2"}, "192.168.0.50", 9100)
		require.NoError(t, err)
		assert.Equal(t, 2, printed)
		assert.Equal(t, "192.168.0.50", printer.ip)
		assert.Equal(t, 9100, printer.port)
		require.Len(t, printer.badges, 2)
		assert.Equal(t, domain.BadgePayload{Name: "Maria Souza", Company: "Acme", Position: "CTO", QR: "enr-1"}, printer.badges[0])
		assert.Equal(t, "enr-2", printer.badges[1].QR)
		assert.Equal(t, "badge.print", auditor.last().Action)
	})

	t.Run("empty arguments map to ErrInvalidInput", func(t *testing.T) {
		enrRepo, evRepo := setup()
		svc := newBadgeService(enrRepo, evRepo, &fakePrinter{}, &fakeAuditor{})

		_, err := svc.PrintBadges(ctx, "admin-1", "ev-1", nil, "192.168.0.50", 9100)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = svc.PrintBadges(ctx, "admin-1", "ev-1", []string{"enr-1"}, "", 9100)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = svc.PrintBadges(ctx, "admin-1", "ev-1", []string{"enr-1"}, "192.168.0.50", 0)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown event maps to ErrNotFound", func(t *testing.T) {
		enrRepo, _ := setup()
		svc := newBadgeService(enrRepo, newFakeEventRepo(), &fakePrinter{}, &fakeAuditor{})

		_, err := svc.PrintBadges(ctx, "admin-1", "ghost", []string{"enr-1"}, "192.168.0.50", 9100)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("enrollment from another event maps to ErrInvalidInput", func(t *testing.T) {
		enrRepo, evRepo := setup()
		enrRepo.byID["enr-3"] = &domain.Enrollment{ID: "enr-3", EventID: "ev-other"}
		printer := &fakePrinter{}
		svc := newBadgeService(enrRepo, evRepo, printer, &fakeAuditor{})

		_, err := svc.PrintBadges(ctx, "admin-1", "ev-1", []string{"enr-1", "enr-3"}, "192.168.0.50", 9100)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Empty(t, printer.badges)
	})

	t.Run("unknown enrollment maps to ErrNotFound", func(t *testing.T) {
		enrRepo, evRepo := setup()
		svc := newBadgeService(enrRepo, evRepo, &fakePrinter{}, &fakeAuditor{})

		_, err := svc.PrintBadges(ctx, "admin-1", "ev-1", []string{"ghost"}, "192.168.0.50", 9100)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("printer failure surfaces", func(t *testing.T) {
		enrRepo, evRepo := setup()
		printer := &fakePrinter{err: errors.New("unreachable")}
		svc := newBadgeService(enrRepo, evRepo, printer, &fakeAuditor{})

		_, err := svc.PrintBadges(ctx, "admin-1", "ev-1", []string{"enr-1"}, "192.168.0.50", 9100)
		require.Error(t, err)
	})
}
