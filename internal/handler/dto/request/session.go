package request

import "github.com/google/uuid"

type CreateSessionRequest struct {
	Title string `json:"title" binding:"required"`
	// ItemIDs may repeat: each entry is one claimable crate.
	ItemIDs        []uuid.UUID `json:"item_ids" binding:"required,min=1"`
	ParticipantIDs []uuid.UUID `json:"participant_ids" binding:"required,min=1"`
}
