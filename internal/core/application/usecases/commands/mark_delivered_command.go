package commands

import (
	"errors"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// MaxDeliveryProofLength bounds the stored proof reference.
const MaxDeliveryProofLength = 255

var ErrMarkDeliveredCommandIsNotConstructed = errors.New(
	"MarkDeliveredCommand must be created via NewMarkDeliveredCommand constructor",
)

// MarkDeliveredCommand records that the assigned carrier handed the goods over.
// proof is a signature or photo reference and may be empty; an order delivered
// without proof cannot be finalized.
type MarkDeliveredCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   kernel.Actor
	proof   string

	guard guard.ConstructorGuard
}

func NewMarkDeliveredCommand(orderID kernel.UUID, actor kernel.Actor, proof string) (MarkDeliveredCommand, error) {
	cmd := MarkDeliveredCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		requireID("orderID", orderID),
		requireActor(actor),
		cmd.setProof(proof),
	); err != nil {
		return MarkDeliveredCommand{}, err
	}
	cmd.orderID = orderID
	cmd.actor = actor

	return cmd, nil
}

func (c MarkDeliveredCommand) Validate() error {
	return c.guard.Validate(ErrMarkDeliveredCommandIsNotConstructed)
}

func (c MarkDeliveredCommand) OrderID() kernel.UUID { return c.orderID }
func (c MarkDeliveredCommand) Actor() kernel.Actor  { return c.actor }
func (c MarkDeliveredCommand) Proof() string        { return c.proof }

func (c *MarkDeliveredCommand) setProof(proof string) error {
	proof = strings.TrimSpace(proof)
	if len(proof) > MaxDeliveryProofLength {
		return errs.NewValueIsOutOfRangeError("proof length", len(proof), 0, MaxDeliveryProofLength)
	}
	c.proof = proof
	return nil
}
