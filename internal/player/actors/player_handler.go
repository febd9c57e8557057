package actors

import (
	"Sanguo/internal/player/entity"
	"Sanguo/internal/player/manager"
	"Sanguo/internal/shared/actor/messages"
	"context"
)

type PlayerHandler struct {
}

// 全局实例
var PH = &PlayerHandler{}

func (h *PlayerHandler) HandleGetState(ctx context.Context, p *PlayerActor, _ messages.GetState) *messages.Response {
	s := p.Session()
	return ok(messages.StateView{
		State:      s.Player().Snapshot(),
		Production: s.Resources.ProductionPerInterval().Map(),
		ServerTime: s.Now(),
	})
}

func (h *PlayerHandler) HandleGetGeneral(ctx context.Context, p *PlayerActor, req messages.GetGeneral) *messages.Response {
	g, found := p.Session().Generals.Get(req.General)
	if !found {
		return fail(manager.ReasonGeneralNotFound)
	}
	return ok(generalView(p, g))
}

func (h *PlayerHandler) HandleAddResource(ctx context.Context, p *PlayerActor, req messages.AddResource) *messages.Response {
	s := p.Session()
	s.Resources.Add(ctx, req.Currency, req.Delta)
	if !s.LastReason().IsZero() {
		return rejected(p)
	}
	return ok(resourceView(p))
}

func (h *PlayerHandler) HandleConsumeResources(ctx context.Context, p *PlayerActor, req messages.ConsumeResources) *messages.Response {
	for _, v := range req.Cost {
		if r := negative(v); r != nil {
			return r
		}
	}
	if !p.Session().Resources.ConsumeMany(ctx, req.Cost) {
		return rejected(p)
	}
	return ok(resourceView(p))
}

func (h *PlayerHandler) HandleRecruit(ctx context.Context, p *PlayerActor, req messages.Recruit) *messages.Response {
	if r := negative(req.Count); r != nil {
		return r
	}
	n := p.Session().Army.Recruit(ctx, req.Unit, req.Count)
	if n == 0 {
		return rejected(p)
	}
	return ok(troopsView(p, n))
}

func (h *PlayerHandler) HandleTrain(ctx context.Context, p *PlayerActor, req messages.Train) *messages.Response {
	if r := negative(req.Count); r != nil {
		return r
	}
	n := p.Session().Army.Train(ctx, req.Unit, req.Count)
	if n == 0 {
		return rejected(p)
	}
	return ok(troopsView(p, n))
}

func (h *PlayerHandler) HandleLose(ctx context.Context, p *PlayerActor, req messages.Lose) *messages.Response {
	if r := negative(req.Count); r != nil {
		return r
	}
	n := p.Session().Army.Lose(ctx, req.Unit, req.Count)
	if !p.Session().LastReason().IsZero() {
		return rejected(p)
	}
	return ok(troopsView(p, n))
}

func (h *PlayerHandler) HandleCreateTerritory(ctx context.Context, p *PlayerActor, req messages.CreateTerritory) *messages.Response {
	t := p.Session().Territories.CreateTerritory(ctx, req.CityRef)
	if t == nil {
		return rejected(p)
	}
	return ok(t.Snapshot())
}

func (h *PlayerHandler) HandleBuild(ctx context.Context, p *PlayerActor, req messages.Build) *messages.Response {
	b := p.Session().Territories.Build(ctx, req.Territory, req.Slot, req.Building)
	if b == nil {
		return rejected(p)
	}
	return ok(b.Snapshot())
}

func (h *PlayerHandler) HandleUpgrade(ctx context.Context, p *PlayerActor, req messages.Upgrade) *messages.Response {
	if !p.Session().Territories.Upgrade(ctx, req.Territory, req.Building) {
		return rejected(p)
	}
	return territoryView(p, req.Territory)
}

func (h *PlayerHandler) HandleUpgradeCore(ctx context.Context, p *PlayerActor, req messages.UpgradeCore) *messages.Response {
	if !p.Session().Territories.UpgradeCore(ctx, req.Territory) {
		return rejected(p)
	}
	return territoryView(p, req.Territory)
}

func (h *PlayerHandler) HandleDemolish(ctx context.Context, p *PlayerActor, req messages.Demolish) *messages.Response {
	if !p.Session().Territories.Demolish(ctx, req.Territory, req.Slot) {
		return rejected(p)
	}
	return territoryView(p, req.Territory)
}

func (h *PlayerHandler) HandleExtend(ctx context.Context, p *PlayerActor, req messages.Extend) *messages.Response {
	if r := negative(int64(req.Slots)); r != nil {
		return r
	}
	if !p.Session().Territories.Extend(ctx, req.Territory, req.Slots) {
		return rejected(p)
	}
	return territoryView(p, req.Territory)
}

func (h *PlayerHandler) HandleObtainGeneral(ctx context.Context, p *PlayerActor, req messages.ObtainGeneral) *messages.Response {
	g := p.Session().Generals.Obtain(ctx, req.Rarity, req.Class)
	if g == nil {
		return rejected(p)
	}
	return ok(generalView(p, g))
}

func (h *PlayerHandler) HandleAddExperience(ctx context.Context, p *PlayerActor, req messages.AddExperience) *messages.Response {
	if r := negative(req.Amount); r != nil {
		return r
	}
	s := p.Session()
	s.Generals.AddExperience(ctx, req.General, req.Amount)
	if !s.LastReason().IsZero() {
		return rejected(p)
	}
	g, _ := s.Generals.Get(req.General)
	return ok(generalView(p, g))
}

func (h *PlayerHandler) HandleStarUp(ctx context.Context, p *PlayerActor, req messages.StarUp) *messages.Response {
	s := p.Session()
	if !s.Generals.StarUp(ctx, req.General) {
		return rejected(p)
	}
	g, _ := s.Generals.Get(req.General)
	return ok(generalView(p, g))
}

func (h *PlayerHandler) HandleDismiss(ctx context.Context, p *PlayerActor, req messages.Dismiss) *messages.Response {
	if !p.Session().Generals.Dismiss(ctx, req.General) {
		return rejected(p)
	}
	return ok(nil)
}

func resourceView(p *PlayerActor) messages.ResourceView {
	r := p.Session().Resources
	return messages.ResourceView{Amounts: r.Amounts().Map(), Caps: r.Caps().Map()}
}

func troopsView(p *PlayerActor, actual int64) messages.TroopsView {
	a := p.Session().Army
	counts := make(map[string]int64, entity.UnitTypeCount)
	for u, n := range a.Counts() {
		counts[u.String()] = n
	}
	return messages.TroopsView{Actual: actual, Counts: counts, Total: a.Total(), Cap: a.Cap()}
}

func territoryView(p *PlayerActor, id entity.TerritoryID) *messages.Response {
	t, found := p.Session().Territories.Get(id)
	if !found {
		return fail(manager.ReasonTerritoryNotFound)
	}
	return ok(t.Snapshot())
}

func generalView(p *PlayerActor, g *entity.General) messages.GeneralView {
	prof := make([]string, 0, entity.UnitTypeCount)
	for _, u := range g.Proficiencies() {
		prof = append(prof, u.String())
	}
	return messages.GeneralView{
		GeneralSnapshot: g.Snapshot(),
		Proficient:      prof,
		Power:           g.Power(),
		MaxTroops:       g.MaxTroops(p.Session().Tables().Generals.Troops),
		LevelCap:        g.LevelCap(),
		ExpToNext:       g.ExpToNext(),
	}
}
