package response

import "loot-ledger/internal/usecase/queries"

type LoginResponse struct {
	AccessToken string             `json:"access_token"`
	Member      queries.MemberView `json:"member"`
}
