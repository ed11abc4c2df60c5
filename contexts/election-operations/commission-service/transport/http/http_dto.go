package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type GrantRegistrarRequest struct {
	Principal string `json:"principal"`
}

type RevokeRegistrarRequest struct {
	Principal string `json:"principal"`
}

type TransferAuthorityRequest struct {
	Principal string `json:"principal"`
}

type RegistrarResponse struct {
	Principal string    `json:"principal"`
	GrantedBy string    `json:"granted_by"`
	GrantedAt time.Time `json:"granted_at"`
}

type RosterResponse struct {
	Authority      string              `json:"authority"`
	AuthoritySince time.Time           `json:"authority_since"`
	Registrars     []RegistrarResponse `json:"registrars"`
}

type RoleCheckResponse struct {
	Principal   string `json:"principal"`
	IsAuthority bool   `json:"is_authority"`
	IsRegistrar bool   `json:"is_registrar"`
}
