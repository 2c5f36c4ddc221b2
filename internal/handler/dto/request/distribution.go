package request

import "github.com/google/uuid"

type AssignRequest struct {
	ItemID      uuid.UUID `json:"item_id" binding:"required"`
	RecipientID uuid.UUID `json:"recipient_id" binding:"required"`
	Quantity    int       `json:"quantity" binding:"required,min=1"`
}

type WithdrawRequest struct {
	ItemID   uuid.UUID `json:"item_id" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,min=1"`
}

type DrawGiveawayRequest struct {
	Mode string `json:"mode" binding:"required,oneof=PICK_RECIPIENT PICK_ITEM"`
	// ItemIDs is the prize pool (PICK_ITEM) or a single item (PICK_RECIPIENT).
	ItemIDs []uuid.UUID `json:"item_ids" binding:"required,min=1"`
	// CandidateIDs is the member pool (PICK_RECIPIENT) or a single fixed
	// recipient (PICK_ITEM).
	CandidateIDs []uuid.UUID `json:"candidate_ids" binding:"required,min=1"`
}
