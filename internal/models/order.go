package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses tracked locally
const (
	OrderStatusPending    = "PENDING"
	OrderStatusSuccessful = "SUCCESSFUL"
	OrderStatusFailed     = "FAILED"
)

// OrderItem is one recipient line of a submitted order
type OrderItem struct {
	ProductID   string  `bson:"productId" json:"productId"`
	OperatorID  string  `bson:"operatorId" json:"operatorId"`
	MSISDN      string  `bson:"msisdn" json:"msisdn"`
	Amount      float64 `bson:"amount" json:"amount"`
	CountryCode string  `bson:"countryCode" json:"countryCode"`
}

// Order is a purchase handed off to the gateway
type Order struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Reference      string             `bson:"reference" json:"reference"`
	GatewayOrderID string             `bson:"gatewayOrderId,omitempty" json:"gatewayOrderId,omitempty"`
	ClientID       string             `bson:"clientId" json:"-"`
	Email          string             `bson:"email" json:"email"`
	PurchaseType   PurchaseType       `bson:"purchaseType" json:"purchaseType"`
	ReferralCode   string             `bson:"referralCode,omitempty" json:"referralCode,omitempty"`
	Items          []OrderItem        `bson:"items" json:"items"`
	Amount         float64            `bson:"amount" json:"amount"`
	Bonus          int64              `bson:"bonus" json:"bonus"`
	Status         string             `bson:"status" json:"status"`
	Message        string             `bson:"message,omitempty" json:"message,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
