package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/tatianab/bufo-clicker/internal/catalog"
	"github.com/tatianab/bufo-clicker/internal/events"
)

// CostGrowth is the per-unit price increase of buildings.
const CostGrowth = 1.15

// CostOf returns the price of the next unit of a building.
func CostOf(baseCost float64, owned int) float64 {
	return math.Floor(baseCost * math.Pow(CostGrowth, float64(owned)))
}

// BuildingCost returns the current price of building i.
func (e *Engine) BuildingCost(i int) (float64, error) {
	if i < 0 || i >= len(e.cat.Buildings) {
		return 0, fmt.Errorf("building %d: %w", i, ErrInvalidIndex)
	}
	return CostOf(e.cat.Buildings[i].BaseCost, e.st.Owned[i]), nil
}

// PurchaseBuilding buys one unit of building i. On error nothing changes.
func (e *Engine) PurchaseBuilding(i int) error {
	cost, err := e.BuildingCost(i)
	if err != nil {
		return err
	}
	if e.st.Bufos < cost {
		return fmt.Errorf("%s costs %v: %w", e.cat.Buildings[i].Name, cost, ErrInsufficientFunds)
	}

	e.st.Bufos -= cost
	e.st.Owned[i]++
	e.st.Stats.BuildingsPurchased++
	e.Recompute()

	e.publish(events.EventBuildingPurchased, events.PurchaseData{Index: i, Name: e.cat.Buildings[i].Name, Cost: cost})
	e.log.Debug("building purchased", "building", e.cat.Buildings[i].Name, "owned", e.st.Owned[i], "cost", cost)
	return nil
}

// PurchaseUpgrade buys upgrade i. On error nothing changes.
func (e *Engine) PurchaseUpgrade(i int) error {
	if i < 0 || i >= len(e.cat.Upgrades) {
		return fmt.Errorf("upgrade %d: %w", i, ErrInvalidIndex)
	}
	u := e.cat.Upgrades[i]
	if e.st.Purchased[i] {
		return fmt.Errorf("%s: %w", u.Name, ErrAlreadyPurchased)
	}
	if e.st.Bufos < u.Cost {
		return fmt.Errorf("%s costs %v: %w", u.Name, u.Cost, ErrInsufficientFunds)
	}

	e.st.Bufos -= u.Cost
	e.st.Purchased[i] = true
	e.st.Stats.UpgradesPurchased++
	if u.Effect.AffectsProduction() {
		e.Recompute()
	}

	e.publish(events.EventUpgradePurchased, events.PurchaseData{Index: i, Name: u.Name, Cost: u.Cost})
	e.log.Debug("upgrade purchased", "upgrade", u.Name, "cost", u.Cost)
	return nil
}

// BuildingRate returns the bufos per second produced by the owned units of
// building i, before global multipliers and boosts.
func (e *Engine) BuildingRate(i int) float64 {
	b := e.cat.Buildings[i]
	rate := b.BaseProduction * float64(e.st.Owned[i])
	for j, u := range e.cat.Upgrades {
		if !e.st.Purchased[j] {
			continue
		}
		if target, ok := u.Target(); ok && target == i {
			rate *= u.Value
		}
	}
	return rate
}

// ComputeProductionRate derives bufos per second from ownership, purchased
// upgrades and active production boosts.
func (e *Engine) ComputeProductionRate() float64 {
	var rate float64
	for i := range e.cat.Buildings {
		rate += e.BuildingRate(i)
	}
	for j, u := range e.cat.Upgrades {
		if e.st.Purchased[j] && u.Effect == catalog.EffectGlobalMulti {
			rate *= u.Value
		}
	}
	return rate * e.EffectiveMultiplier(ScopeProduction)
}

// Recompute refreshes the cached production rate.
func (e *Engine) Recompute() {
	e.st.ProductionRate = e.ComputeProductionRate()
}

// ClickValue is what one click earns right now. Every active boost applies to
// clicks, production boosts included.
func (e *Engine) ClickValue() float64 {
	v := e.st.ClickPower
	for j, u := range e.cat.Upgrades {
		if e.st.Purchased[j] && u.Effect == catalog.EffectClickPower {
			v *= u.Value
		}
	}
	return v * e.EffectiveMultiplier(ScopeProduction) * e.EffectiveMultiplier(ScopeClick)
}

// ApplyClick credits one click and returns its value.
func (e *Engine) ApplyClick() float64 {
	v := e.ClickValue()
	e.st.Earn(v)
	e.st.Stats.Clicks++

	e.publish(events.EventClicked, events.ClickData{Value: v})
	e.notify("+"+FormatNumber(v), events.EmphasisMuted)
	return v
}

// Advance credits passive production for elapsed time.
func (e *Engine) Advance(elapsed time.Duration) {
	if elapsed < 0 {
		e.log.Debug("negative advance clamped", "elapsed", elapsed)
		return
	}
	e.st.Earn(e.st.ProductionRate * elapsed.Seconds())
}
