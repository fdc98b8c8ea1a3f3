package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Item types.
const (
	TypeTool      = "tool"
	TypeMedicine  = "medicine"
	TypeEquipment = "equipment"
	TypeMaterial  = "material"
)

// Effect kinds.
const (
	EffectAttribute = "attribute"
	EffectRecover   = "recover"
	EffectSpecial   = "special"
)

// Effect describes what an item does when applied.
type Effect struct {
	Type   string `yaml:"type" json:"type"`
	Target string `yaml:"target" json:"target"`
	Value  int    `yaml:"value" json:"value"`
}

// Item is a shop catalog entry. The catalog is read-only at runtime.
type Item struct {
	ItemID      string `yaml:"item_id" json:"itemId"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description,omitempty"`
	Type        string `yaml:"type" json:"type"`
	Category    string `yaml:"category" json:"category"`
	Rarity      string `yaml:"rarity" json:"rarity"`
	Effect      Effect `yaml:"effect" json:"effect"`
	Price       int    `yaml:"price" json:"price"`
	SellPrice   int    `yaml:"sell_price" json:"sellPrice"`
	MaxStack    int    `yaml:"max_stack" json:"maxStack"`
}

// Stackable reports whether more than one unit may share an inventory entry.
func (i Item) Stackable() bool {
	return i.MaxStack > 1
}

// QuestReward is the payout attached to a quest template.
type QuestReward struct {
	Currency     int `yaml:"currency" json:"currency"`
	Experience   int `yaml:"experience" json:"experience"`
	Chakra       int `yaml:"chakra" json:"chakra"`
	Ninjutsu     int `yaml:"ninjutsu" json:"ninjutsu"`
	Taijutsu     int `yaml:"taijutsu" json:"taijutsu"`
	Intelligence int `yaml:"intelligence" json:"intelligence"`
	Speed        int `yaml:"speed" json:"speed"`
	Luck         int `yaml:"luck" json:"luck"`
}

// QuestTemplate seeds one per-player quest row at registration.
type QuestTemplate struct {
	QuestID     string      `yaml:"quest_id" json:"questId"`
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description" json:"description"`
	Type        string      `yaml:"type" json:"type"`
	Reward      QuestReward `yaml:"reward" json:"reward"`
}

// Catalog is the immutable game data: shop items and quest templates.
type Catalog struct {
	items      []Item
	itemsByID  map[string]Item
	quests     []QuestTemplate
	questsByID map[string]QuestTemplate
}

type fileFormat struct {
	Items  []Item          `yaml:"items"`
	Quests []QuestTemplate `yaml:"quests"`
}

//go:embed gamedata.yml
var defaultGameData []byte

// Load reads game data from path, or the embedded defaults when path is empty.
func Load(path string) (*Catalog, error) {
	raw := defaultGameData
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read game data: %w", err)
		}
		raw = b
	}
	return parse(raw)
}

func parse(raw []byte) (*Catalog, error) {
	var f fileFormat
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse game data: %w", err)
	}

	c := &Catalog{
		items:      f.Items,
		itemsByID:  make(map[string]Item, len(f.Items)),
		quests:     f.Quests,
		questsByID: make(map[string]QuestTemplate, len(f.Quests)),
	}
	for _, it := range f.Items {
		if it.ItemID == "" {
			return nil, fmt.Errorf("game data: item with empty item_id")
		}
		if _, dup := c.itemsByID[it.ItemID]; dup {
			return nil, fmt.Errorf("game data: duplicate item %q", it.ItemID)
		}
		if it.MaxStack < 0 {
			return nil, fmt.Errorf("game data: item %q has negative max_stack", it.ItemID)
		}
		c.itemsByID[it.ItemID] = it
	}
	for _, q := range f.Quests {
		if q.QuestID == "" {
			return nil, fmt.Errorf("game data: quest with empty quest_id")
		}
		if _, dup := c.questsByID[q.QuestID]; dup {
			return nil, fmt.Errorf("game data: duplicate quest %q", q.QuestID)
		}
		switch q.Type {
		case "main", "side", "daily":
		default:
			return nil, fmt.Errorf("game data: quest %q has unknown type %q", q.QuestID, q.Type)
		}
		c.questsByID[q.QuestID] = q
	}
	return c, nil
}

// Items returns the full shop catalog.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Item looks up a catalog entry by id.
func (c *Catalog) Item(itemID string) (Item, bool) {
	it, ok := c.itemsByID[itemID]
	return it, ok
}

// Quests returns all quest templates in file order.
func (c *Catalog) Quests() []QuestTemplate {
	out := make([]QuestTemplate, len(c.quests))
	copy(out, c.quests)
	return out
}

// Quest looks up a quest template by id.
func (c *Catalog) Quest(questID string) (QuestTemplate, bool) {
	q, ok := c.questsByID[questID]
	return q, ok
}
