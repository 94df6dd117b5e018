package domain

type Role string

const (
	// Member is the default role for every sign-up.
	RoleMember Role = "member"
	// Admin requires the server-side invite token at sign-up or profile update.
	RoleAdmin Role = "admin"
)

func IsValidRole(r string) bool {
	return r == string(RoleMember) || r == string(RoleAdmin)
}

// RoleForInvite resolves the role granted by an invite token.
// An empty secret never grants admin.
func RoleForInvite(inviteToken, secret string) Role {
	if inviteToken != "" && secret != "" && inviteToken == secret {
		return RoleAdmin
	}
	return RoleMember
}
