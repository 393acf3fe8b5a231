package events

import "time"

// EventType describes the kind of event emitted by the game.
type EventType string

const (
	EventClicked             EventType = "Clicked"
	EventBuildingPurchased   EventType = "BuildingPurchased"
	EventUpgradePurchased    EventType = "UpgradePurchased"
	EventAchievementUnlocked EventType = "AchievementUnlocked"
	EventBoostActivated      EventType = "BoostActivated"
	EventBoostExpired        EventType = "BoostExpired"
	EventBonusSpawned        EventType = "BonusSpawned"
	EventBonusClaimed        EventType = "BonusClaimed"
	EventBonusExpired        EventType = "BonusExpired"
	EventCheatApplied        EventType = "CheatApplied"
	EventThemeChanged        EventType = "ThemeChanged"
	EventGameReset           EventType = "GameReset"
)

// Cue is the audio cue a presentation should play for an event.
type Cue int

const (
	CueNone Cue = iota
	CueClick
	CuePurchase
	CueAchievement
	CueBoost
)

// Cue maps an event type to its audio cue.
func (t EventType) Cue() Cue {
	switch t {
	case EventClicked:
		return CueClick
	case EventBuildingPurchased, EventUpgradePurchased:
		return CuePurchase
	case EventAchievementUnlocked:
		return CueAchievement
	case EventBoostActivated, EventBonusClaimed:
		return CueBoost
	}
	return CueNone
}

// ClickData is the payload for EventClicked.
type ClickData struct {
	Value float64
}

// PurchaseData is the payload for building and upgrade purchases.
type PurchaseData struct {
	Index int
	Name  string
	Cost  float64
}

// AchievementData is the payload for EventAchievementUnlocked.
type AchievementData struct {
	Index       int
	Name        string
	Description string
}

// BoostData is the payload for boost activation and expiry.
type BoostData struct {
	ID          string
	Description string
	Multiplier  float64
	ClickOnly   bool
	Until       time.Time
}

// BonusData is the payload for golden bufo lifecycle events.
type BonusData struct {
	BoostID string
	X, Y    int
}

// CheatData is the payload for EventCheatApplied.
type CheatData struct {
	Code        string
	Description string
}

// ThemeData is the payload for EventThemeChanged.
type ThemeData struct {
	ID string
}

// Event represents a game event produced by command execution.
type Event struct {
	ID   uint64
	At   time.Time
	Type EventType
	Data any
}

// New constructs a new Event with the provided fields.
func New(id uint64, at time.Time, eventType EventType, data any) Event {
	return Event{
		ID:   id,
		At:   at,
		Type: eventType,
		Data: data,
	}
}
