package models

import "time"

// --- Notifications ---

// NotificationCategory groups notifications for filtering.
type NotificationCategory string

const (
	CategoryStock      NotificationCategory = "stock"
	CategorySales      NotificationCategory = "sales"
	CategoryConversion NotificationCategory = "conversion"
	CategoryTrend      NotificationCategory = "trend"
	CategoryData       NotificationCategory = "data"
)

// Severity ranks how urgently a notification needs attention.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityInfo     Severity = "info"
)

// NotificationStatus is the lifecycle state of a notification.
type NotificationStatus string

const (
	StatusGenerated NotificationStatus = "generated"
	StatusRead      NotificationStatus = "read"
	StatusDismissed NotificationStatus = "dismissed"
)

// NotificationKey is the stable, content-derived identity of a
// notification. It is compared by value; the same input data always
// produces the same key, so read/dismissed state survives recomputation.
// Subject is a product code, or a period name for data-category
// notifications.
type NotificationKey struct {
	Category NotificationCategory `json:"category"`
	Subject  string               `json:"subject"`
	Rule     string               `json:"rule"`
}

// NavigationTarget lets the frontend deep-link into a pre-filtered view.
type NavigationTarget struct {
	Tab                 string            `json:"tab"`
	AnalysisType        string            `json:"analysis_type,omitempty"`
	Filters             map[string]string `json:"filters,omitempty"`
	RelatedProductCodes []string          `json:"related_product_codes,omitempty"`
	Segment             *Segment          `json:"segment,omitempty"`
}

// Notification is a derived fact requiring operator attention.
type Notification struct {
	Key           NotificationKey    `json:"key"`
	Severity      Severity           `json:"severity"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	ImpactRevenue *float64           `json:"impact_revenue,omitempty"`
	Navigation    *NavigationTarget  `json:"navigation,omitempty"`
	Priority      float64            `json:"priority"`
	Status        NotificationStatus `json:"status"`
	ReadAt        *time.Time         `json:"read_at,omitempty"`
}

// InteractionState is the persisted set of notification identities the
// operator has read or dismissed. Concurrent updates are merged by
// set-union, never overwritten.
type InteractionState struct {
	Read      map[NotificationKey]time.Time `json:"-"`
	Dismissed map[NotificationKey]time.Time `json:"-"`
}

// NewInteractionState returns an empty, ready-to-use interaction state.
func NewInteractionState() InteractionState {
	return InteractionState{
		Read:      make(map[NotificationKey]time.Time),
		Dismissed: make(map[NotificationKey]time.Time),
	}
}

// Clone returns a deep copy, so a recomputation can hold an immutable
// snapshot while the operator keeps clicking.
func (s InteractionState) Clone() InteractionState {
	out := NewInteractionState()
	for k, v := range s.Read {
		out.Read[k] = v
	}
	for k, v := range s.Dismissed {
		out.Dismissed[k] = v
	}
	return out
}

// Union merges other into s (set-union; earliest timestamp wins).
func (s InteractionState) Union(other InteractionState) {
	for k, v := range other.Read {
		if cur, ok := s.Read[k]; !ok || v.Before(cur) {
			s.Read[k] = v
		}
	}
	for k, v := range other.Dismissed {
		if cur, ok := s.Dismissed[k]; !ok || v.Before(cur) {
			s.Dismissed[k] = v
		}
	}
}

// --- Recommendations ---

// RecommendationType is the tactical action a recommendation proposes.
type RecommendationType string

const (
	RecStockReorder RecommendationType = "stock-reorder"
	RecPriceAdjust  RecommendationType = "price-adjust"
	RecImagery      RecommendationType = "imagery"
	RecCampaign     RecommendationType = "campaign"
	RecArchive      RecommendationType = "archive"
	RecGiftBundle   RecommendationType = "gift-bundle"
)

// Urgency tiers order recommendations in the summary view.
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// Recommendation is a per-product tactical suggestion with its
// supporting numbers.
type Recommendation struct {
	ProductCode     string             `json:"product_code"`
	ProductName     string             `json:"product_name"`
	Type            RecommendationType `json:"type"`
	Urgency         Urgency            `json:"urgency"`
	Title           string             `json:"title"`
	Detail          string             `json:"detail"`
	EstimatedImpact float64            `json:"estimated_impact"`
}
