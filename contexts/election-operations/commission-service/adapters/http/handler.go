package httpadapter

import (
	"context"
	"log/slog"

	"electorate/contexts/election-operations/commission-service/application/commands"
	"electorate/contexts/election-operations/commission-service/application/queries"
	httptransport "electorate/contexts/election-operations/commission-service/transport/http"
)

type Handler struct {
	Roster *commands.RosterUseCase
	Policy queries.PolicyUseCase
	Logger *slog.Logger
}

func (h Handler) GrantRegistrarHandler(
	ctx context.Context,
	actor string,
	req httptransport.GrantRegistrarRequest,
) (httptransport.RegistrarResponse, error) {
	registrar, err := h.Roster.GrantRegistrar(ctx, commands.GrantRegistrarCommand{
		Actor:     actor,
		Principal: req.Principal,
	})
	if err != nil {
		return httptransport.RegistrarResponse{}, err
	}
	return httptransport.RegistrarResponse{
		Principal: registrar.Principal,
		GrantedBy: registrar.GrantedBy,
		GrantedAt: registrar.GrantedAt,
	}, nil
}

func (h Handler) RevokeRegistrarHandler(
	ctx context.Context,
	actor string,
	req httptransport.RevokeRegistrarRequest,
) error {
	return h.Roster.RevokeRegistrar(ctx, commands.RevokeRegistrarCommand{
		Actor:     actor,
		Principal: req.Principal,
	})
}

func (h Handler) TransferAuthorityHandler(
	ctx context.Context,
	actor string,
	req httptransport.TransferAuthorityRequest,
) error {
	return h.Roster.TransferAuthority(ctx, commands.TransferAuthorityCommand{
		Actor:     actor,
		Principal: req.Principal,
	})
}

func (h Handler) RosterHandler(ctx context.Context) (httptransport.RosterResponse, error) {
	roster, err := h.Policy.Roster(ctx)
	if err != nil {
		return httptransport.RosterResponse{}, err
	}
	registrars := make([]httptransport.RegistrarResponse, 0, len(roster.Registrars))
	for _, registrar := range roster.Registrars {
		registrars = append(registrars, httptransport.RegistrarResponse{
			Principal: registrar.Principal,
			GrantedBy: registrar.GrantedBy,
			GrantedAt: registrar.GrantedAt,
		})
	}
	return httptransport.RosterResponse{
		Authority:      roster.Authority,
		AuthoritySince: roster.AuthoritySince,
		Registrars:     registrars,
	}, nil
}

func (h Handler) RoleCheckHandler(ctx context.Context, principal string) (httptransport.RoleCheckResponse, error) {
	isAuthority, err := h.Policy.IsAuthority(ctx, principal)
	if err != nil {
		return httptransport.RoleCheckResponse{}, err
	}
	isRegistrar, err := h.Policy.IsRegistrar(ctx, principal)
	if err != nil {
		return httptransport.RoleCheckResponse{}, err
	}
	return httptransport.RoleCheckResponse{
		Principal:   principal,
		IsAuthority: isAuthority,
		IsRegistrar: isRegistrar,
	}, nil
}
