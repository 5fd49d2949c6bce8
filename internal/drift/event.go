// Package drift defines the Drift program's event schema and the registry
// that resolves an 8-byte Anchor discriminant into a typed, borsh-decoded
// event. The schema is hand-maintained from the program IDL: field order and
// widths must match the on-chain borsh layout exactly.
package drift

import (
	"github.com/gagliardetto/solana-go"
)

// ProgramAddress is the Drift program id on Solana mainnet. Callers parse it
// once at startup (see ProgramID) and pass it explicitly to components that
// filter transactions by program.
const ProgramAddress = "dRiftyHA39MWEi3m9aunc5MzRF1JYuBsbn6VPcn33UH"

// ProgramID returns ProgramAddress parsed into a public key.
func ProgramID() solana.PublicKey {
	return solana.MustPublicKeyFromBase58(ProgramAddress)
}

// Event is the tagged union over the event kinds this indexer understands.
// Implementations are plain decoded records; EventName returns the IDL event
// name the discriminant was derived from.
type Event interface {
	EventName() string
}

// MarketType distinguishes spot from perpetual markets.
type MarketType uint8

const (
	MarketTypeSpot MarketType = iota
	MarketTypePerp
)

// PositionDirection is the side of an order or position.
type PositionDirection uint8

const (
	PositionDirectionLong PositionDirection = iota
	PositionDirectionShort
)

// OrderAction is the lifecycle action an OrderActionRecord describes.
type OrderAction uint8

const (
	OrderActionPlace OrderAction = iota
	OrderActionCancel
	OrderActionFill
	OrderActionTrigger
	OrderActionExpire
)

// OrderActionExplanation qualifies why an order action happened.
type OrderActionExplanation uint8

const (
	OrderActionExplanationNone OrderActionExplanation = iota
	OrderActionExplanationInsufficientFreeCollateral
	OrderActionExplanationOraclePriceBreachedLimitPrice
	OrderActionExplanationMarketOrderFilledToLimitPrice
	OrderActionExplanationOrderExpired
	OrderActionExplanationLiquidation
	OrderActionExplanationOrderFilledWithAMM
	OrderActionExplanationOrderFilledWithAMMJit
	OrderActionExplanationOrderFilledWithMatch
	OrderActionExplanationOrderFilledWithMatchJit
	OrderActionExplanationMarketExpired
	OrderActionExplanationRiskingIncreasingOrder
	OrderActionExplanationReduceOnlyOrderIncreasedPosition
)

// OrderStatus is the lifecycle state of an order account.
type OrderStatus uint8

const (
	OrderStatusInit OrderStatus = iota
	OrderStatusOpen
	OrderStatusFilled
	OrderStatusCanceled
)

// OrderType is the execution style requested for an order.
type OrderType uint8

const (
	OrderTypeMarket OrderType = iota
	OrderTypeLimit
	OrderTypeTriggerMarket
	OrderTypeTriggerLimit
	OrderTypeOracle
)

// OrderTriggerCondition is the oracle condition arming a trigger order.
type OrderTriggerCondition uint8

const (
	OrderTriggerConditionAbove OrderTriggerCondition = iota
	OrderTriggerConditionBelow
	OrderTriggerConditionTriggeredAbove
	OrderTriggerConditionTriggeredBelow
)

// Order is the on-chain order state embedded in an OrderRecord.
type Order struct {
	Slot                      uint64
	Price                     uint64
	BaseAssetAmount           uint64
	BaseAssetAmountFilled     uint64
	QuoteAssetAmountFilled    uint64
	TriggerPrice              uint64
	AuctionStartPrice         int64
	AuctionEndPrice           int64
	MaxTs                     int64
	OraclePriceOffset         int32
	OrderID                   uint32
	MarketIndex               uint16
	Status                    OrderStatus
	OrderType                 OrderType
	MarketType                MarketType
	UserOrderID               uint8
	ExistingPositionDirection PositionDirection
	Direction                 PositionDirection
	ReduceOnly                bool
	PostOnly                  bool
	ImmediateOrCancel         bool
	TriggerCondition          OrderTriggerCondition
	AuctionDuration           uint8
	Padding                   [3]uint8
}

// OrderActionRecord is emitted for every order lifecycle action the program
// performs: placements, cancels, fills, triggers, and expiries. Optional
// fields are only set when the action involves the corresponding party.
type OrderActionRecord struct {
	Ts                int64
	Action            OrderAction
	ActionExplanation OrderActionExplanation
	MarketIndex       uint16
	MarketType        MarketType

	Filler                   *solana.PublicKey `bin:"optional"`
	FillerReward             *uint64           `bin:"optional"`
	FillRecordID             *uint64           `bin:"optional"`
	BaseAssetAmountFilled    *uint64           `bin:"optional"`
	QuoteAssetAmountFilled   *uint64           `bin:"optional"`
	TakerFee                 *uint64           `bin:"optional"`
	MakerFee                 *int64            `bin:"optional"`
	ReferrerReward           *uint32           `bin:"optional"`
	QuoteAssetAmountSurplus  *int64            `bin:"optional"`
	SpotFulfillmentMethodFee *uint64           `bin:"optional"`

	Taker                                      *solana.PublicKey  `bin:"optional"`
	TakerOrderID                               *uint32            `bin:"optional"`
	TakerOrderDirection                        *PositionDirection `bin:"optional"`
	TakerOrderBaseAssetAmount                  *uint64            `bin:"optional"`
	TakerOrderCumulativeBaseAssetAmountFilled  *uint64            `bin:"optional"`
	TakerOrderCumulativeQuoteAssetAmountFilled *uint64            `bin:"optional"`

	Maker                                      *solana.PublicKey  `bin:"optional"`
	MakerOrderID                               *uint32            `bin:"optional"`
	MakerOrderDirection                        *PositionDirection `bin:"optional"`
	MakerOrderBaseAssetAmount                  *uint64            `bin:"optional"`
	MakerOrderCumulativeBaseAssetAmountFilled  *uint64            `bin:"optional"`
	MakerOrderCumulativeQuoteAssetAmountFilled *uint64            `bin:"optional"`

	OraclePrice int64
}

// EventName implements Event.
func (OrderActionRecord) EventName() string { return "OrderActionRecord" }

// OrderRecord is emitted when a user places an order, carrying the full
// order state as written on chain.
type OrderRecord struct {
	Ts    int64
	User  solana.PublicKey
	Order Order
}

// EventName implements Event.
func (OrderRecord) EventName() string { return "OrderRecord" }
