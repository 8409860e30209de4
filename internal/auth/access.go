package auth

import "tipster/internal/domain"

// Notices shown to accounts that may not use the dashboard
const (
	NoticePending  = "Sua conta está aguardando aprovação do administrador. Você receberá um e-mail quando for aprovado."
	NoticeInactive = "Sua conta foi desativada pelo administrador. Entre em contato para mais informações."
)

// ActionSignOut is the only action offered to blocked accounts
const ActionSignOut = "sign_out"

// Access is the derived permission of a principal to use tips and bets
type Access struct {
	Allowed bool              `json:"allowed"`
	Admin   bool              `json:"admin"`
	Status  domain.UserStatus `json:"status,omitempty"`
	Title   string            `json:"title,omitempty"`
	Notice  string            `json:"notice,omitempty"`
	Actions []string          `json:"actions,omitempty"`
}

// Decide computes access from the principal and the stored account status.
// Administrators are always allowed; everyone else only while active.
func Decide(p *Principal, status domain.UserStatus) Access {
	if p.HasRole(RoleAdmin) {
		return Access{Allowed: true, Admin: true, Status: status}
	}
	if status == domain.UserActive {
		return Access{Allowed: true, Status: status}
	}
	a := Access{Status: status, Actions: []string{ActionSignOut}}
	if status == domain.UserPending {
		a.Title, a.Notice = "Conta Pendente", NoticePending
	} else {
		a.Title, a.Notice = "Conta Desativada", NoticeInactive
	}
	return a
}
