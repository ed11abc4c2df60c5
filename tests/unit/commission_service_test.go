package unit

import (
	"context"
	"errors"
	"testing"

	commission "electorate/contexts/election-operations/commission-service"
	"electorate/contexts/election-operations/commission-service/application/commands"
	domainerrors "electorate/contexts/election-operations/commission-service/domain/errors"
	electioncommands "electorate/contexts/election-operations/election-engine/application/commands"
)

func registerVoterAs(actor string, principal string) electioncommands.RegisterVoterCommand {
	return electioncommands.RegisterVoterCommand{
		Actor:     actor,
		Principal: principal,
	}
}

func TestGrantAndRevokeRegistrar(t *testing.T) {
	module := commission.NewInMemoryModule("authority-1", nil)

	granted, err := module.Roster.GrantRegistrar(context.Background(), commands.GrantRegistrarCommand{
		Actor:     "authority-1",
		Principal: "registrar-1",
	})
	if err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if granted.GrantedBy != "authority-1" {
		t.Fatalf("expected grant attribution, got %+v", granted)
	}

	if _, err := module.Roster.GrantRegistrar(context.Background(), commands.GrantRegistrarCommand{
		Actor:     "authority-1",
		Principal: "registrar-1",
	}); !errors.Is(err, domainerrors.ErrRegistrarAlreadyGranted) {
		t.Fatalf("expected duplicate grant rejection, got %v", err)
	}

	if _, err := module.Roster.GrantRegistrar(context.Background(), commands.GrantRegistrarCommand{
		Actor:     "authority-1",
		Principal: "authority-1",
	}); !errors.Is(err, domainerrors.ErrRegistrarAlreadyGranted) {
		t.Fatalf("expected implicit authority grant rejection, got %v", err)
	}

	if _, err := module.Roster.GrantRegistrar(context.Background(), commands.GrantRegistrarCommand{
		Actor:     "registrar-1",
		Principal: "registrar-2",
	}); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected non-authority grant rejection, got %v", err)
	}

	if err := module.Roster.RevokeRegistrar(context.Background(), commands.RevokeRegistrarCommand{
		Actor:     "authority-1",
		Principal: "registrar-1",
	}); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if err := module.Roster.RevokeRegistrar(context.Background(), commands.RevokeRegistrarCommand{
		Actor:     "authority-1",
		Principal: "registrar-1",
	}); !errors.Is(err, domainerrors.ErrRegistrarNotGranted) {
		t.Fatalf("expected missing grant rejection, got %v", err)
	}
	if err := module.Roster.RevokeRegistrar(context.Background(), commands.RevokeRegistrarCommand{
		Actor:     "authority-1",
		Principal: "authority-1",
	}); !errors.Is(err, domainerrors.ErrInvalidPrincipal) {
		t.Fatalf("expected protected authority rejection, got %v", err)
	}
}

func TestPolicyRoleChecks(t *testing.T) {
	module := commission.NewInMemoryModule("authority-1", nil)
	if _, err := module.Roster.GrantRegistrar(context.Background(), commands.GrantRegistrarCommand{
		Actor:     "authority-1",
		Principal: "registrar-1",
	}); err != nil {
		t.Fatalf("grant failed: %v", err)
	}

	cases := []struct {
		principal   string
		isAuthority bool
		isRegistrar bool
	}{
		{"authority-1", true, true},
		{"registrar-1", false, true},
		{"stranger", false, false},
	}
	for _, tc := range cases {
		isAuthority, err := module.Policy.IsAuthority(context.Background(), tc.principal)
		if err != nil {
			t.Fatalf("authority check failed for %s: %v", tc.principal, err)
		}
		isRegistrar, err := module.Policy.IsRegistrar(context.Background(), tc.principal)
		if err != nil {
			t.Fatalf("registrar check failed for %s: %v", tc.principal, err)
		}
		if isAuthority != tc.isAuthority || isRegistrar != tc.isRegistrar {
			t.Fatalf("unexpected roles for %s: authority=%v registrar=%v", tc.principal, isAuthority, isRegistrar)
		}
	}
}

func TestTransferAuthority(t *testing.T) {
	module := commission.NewInMemoryModule("authority-1", nil)

	if err := module.Roster.TransferAuthority(context.Background(), commands.TransferAuthorityCommand{
		Actor:     "stranger",
		Principal: "authority-2",
	}); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected non-authority transfer rejection, got %v", err)
	}
	if err := module.Roster.TransferAuthority(context.Background(), commands.TransferAuthorityCommand{
		Actor:     "authority-1",
		Principal: "authority-1",
	}); !errors.Is(err, domainerrors.ErrInvalidPrincipal) {
		t.Fatalf("expected self transfer rejection, got %v", err)
	}
	if err := module.Roster.TransferAuthority(context.Background(), commands.TransferAuthorityCommand{
		Actor:     "authority-1",
		Principal: "  ",
	}); !errors.Is(err, domainerrors.ErrInvalidPrincipal) {
		t.Fatalf("expected empty principal rejection, got %v", err)
	}

	if err := module.Roster.TransferAuthority(context.Background(), commands.TransferAuthorityCommand{
		Actor:     "authority-1",
		Principal: "authority-2",
	}); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	oldIsAuthority, err := module.Policy.IsAuthority(context.Background(), "authority-1")
	if err != nil {
		t.Fatalf("authority check failed: %v", err)
	}
	newIsRegistrar, err := module.Policy.IsRegistrar(context.Background(), "authority-2")
	if err != nil {
		t.Fatalf("registrar check failed: %v", err)
	}
	if oldIsAuthority || !newIsRegistrar {
		t.Fatalf("expected authority handover with implicit registrar rights")
	}

	roster, err := module.Policy.Roster(context.Background())
	if err != nil {
		t.Fatalf("roster query failed: %v", err)
	}
	if roster.Authority != "authority-2" {
		t.Fatalf("expected new authority on roster, got %s", roster.Authority)
	}
}

func TestCommissionPolicyDrivesElectionAccess(t *testing.T) {
	commissionModule := commission.NewInMemoryModule("authority-1", nil)

	module, _, _ := newTestEngine(t)
	module.Elections.Access = commissionModule.Policy

	if _, err := module.Elections.RegisterVoter(context.Background(), registerVoterAs("registrar-9", "voter-1")); err == nil {
		t.Fatalf("expected voter registration rejected before grant")
	}

	if _, err := commissionModule.Roster.GrantRegistrar(context.Background(), commands.GrantRegistrarCommand{
		Actor:     "authority-1",
		Principal: "registrar-9",
	}); err != nil {
		t.Fatalf("grant failed: %v", err)
	}

	createElection(t, module, 1)
	if _, err := module.Elections.RegisterVoter(context.Background(), registerVoterAs("registrar-9", "voter-1")); err != nil {
		t.Fatalf("expected granted registrar to register voters, got %v", err)
	}

	if err := commissionModule.Roster.RevokeRegistrar(context.Background(), commands.RevokeRegistrarCommand{
		Actor:     "authority-1",
		Principal: "registrar-9",
	}); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if _, err := module.Elections.RegisterVoter(context.Background(), registerVoterAs("registrar-9", "voter-2")); err == nil {
		t.Fatalf("expected voter registration rejected after revoke")
	}
}
