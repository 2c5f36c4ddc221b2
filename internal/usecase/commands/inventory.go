package commands

import (
	"context"

	"github.com/google/uuid"

	"loot-ledger/internal/domain/inventory"
	"loot-ledger/internal/pkg/clock"
	"loot-ledger/internal/pkg/errs"
	"loot-ledger/internal/usecase/queries"
	"loot-ledger/internal/usecase/shared"
)

type CreateItemInput struct {
	Name     string
	Category string
	Quantity int
	Notes    *string
}

type InventoryCommands interface {
	CreateItem(ctx context.Context, actor shared.Actor, input CreateItemInput) (*queries.ItemView, error)
}

type inventoryCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewInventoryCommands(uow shared.UnitOfWork, clk clock.Clock) InventoryCommands {
	return &inventoryCommandsImpl{uow: uow, clock: clk}
}

func (i *inventoryCommandsImpl) CreateItem(ctx context.Context, actor shared.Actor, input CreateItemInput) (*queries.ItemView, error) {
	if !actor.CanManageLoot() {
		return nil, ErrUnauthorized
	}

	item, err := inventory.NewItem(actor.TenantID, input.Name, input.Category, input.Quantity, input.Notes, i.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	var id uuid.UUID
	err = i.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		created, err := tx.Inventory().Create(ctx, item)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		id = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &queries.ItemView{
		ID:        id,
		TenantID:  item.TenantID(),
		Name:      item.Name(),
		Category:  item.Category(),
		Quantity:  item.Quantity(),
		Notes:     item.Notes(),
		CreatedAt: item.CreatedAt(),
	}, nil
}
