package trivia

// Item ids, §4.7 catalogue.
const (
	ItemDoublePoints = "double_points"
	ItemShield       = "shield"
	ItemBuybackToken = "buyback_token"
	ItemFiftyFifty   = "fifty_fifty"
	ItemFreezeTime   = "freeze_time"
)

type ItemKind string

const (
	ItemKindPassive ItemKind = "passive"
	ItemKindActive  ItemKind = "active"
)

type ShopItem struct {
	ID   string
	Kind ItemKind
	Cost int
}

// Catalogue is the fixed shop price list, §4.7.
var Catalogue = map[string]ShopItem{
	ItemDoublePoints: {ID: ItemDoublePoints, Kind: ItemKindPassive, Cost: 100},
	ItemShield:       {ID: ItemShield, Kind: ItemKindPassive, Cost: 100},
	ItemBuybackToken: {ID: ItemBuybackToken, Kind: ItemKindPassive, Cost: 120},
	ItemFiftyFifty:   {ID: ItemFiftyFifty, Kind: ItemKindActive, Cost: 80},
	ItemFreezeTime:   {ID: ItemFreezeTime, Kind: ItemKindActive, Cost: 70},
}

// armPassive applies a passive item's buff flag immediately on purchase,
// §4.7 ("for passive kinds also sets the corresponding buff flag
// immediately"). double_points and shield are one-shot flags; buyback_token
// has no buff flag, it is consulted from inventory directly at reveal/
// elimination time.
func armPassive(p *Player, itemID string) {
	switch itemID {
	case ItemDoublePoints:
		p.Buffs.DoublePoints = true
	case ItemShield:
		p.Buffs.Shield = true
	}
}
