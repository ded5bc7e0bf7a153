package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mwhitehouse/airwave/internal/localtime"
	"github.com/mwhitehouse/airwave/internal/models"
)

// matchHook attempts to determine the block of a single timeslot.
// Hooks run in precedence order until one reports a match.
type matchHook func(slot *models.Timeslot) (uuid.UUID, bool)

// Classifier annotates timeslots with their programming blocks.
//
// Rule precedence, first match wins: a direct show rule, then a recurring
// local-time range rule, then the configured default block. All rule
// tables are fetched once at load so a whole schedule can be annotated
// without further queries.
type Classifier struct {
	blocks map[uuid.UUID]*models.Block
	hooks  []matchHook
}

// LoadClassifier bulk-fetches the block rule tables and prepares the hook
// chain. defaultTag names the fallback block; if no block carries that
// tag, unmatched slots are left unannotated.
func LoadClassifier(ctx context.Context, store BlockStore, defaultTag string, loc *time.Location) (*Classifier, error) {
	blocks, err := store.Blocks(ctx)
	if err != nil {
		return nil, err
	}
	showRules, err := store.ShowRules(ctx)
	if err != nil {
		return nil, err
	}
	rangeRules, err := store.RangeRules(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*models.Block, len(blocks))
	for _, b := range blocks {
		byID[b.ID] = b
	}

	c := &Classifier{blocks: byID}
	c.hooks = []matchHook{
		c.showHook(showRules),
		c.rangeHook(rangeRules, loc),
		c.defaultHook(blocks, defaultTag),
	}
	return c, nil
}

// Annotate classifies every slot in the list, setting its Block field.
// Classification is a single O(slots x rules) pass; the rule tables are
// small. The input slice is returned for chaining.
func (c *Classifier) Annotate(slots []*models.Timeslot) []*models.Timeslot {
	for _, slot := range slots {
		for _, hook := range c.hooks {
			if id, ok := hook(slot); ok {
				slot.Block = c.blocks[id]
				break
			}
		}
	}
	return slots
}

// showHook matches a slot if a direct rule binds its show to a block.
// Among several rules for the same show, the highest-priority block
// (lowest priority number) wins.
func (c *Classifier) showHook(rules []*models.BlockShowRule) matchHook {
	byShow := make(map[uuid.UUID]uuid.UUID, len(rules))
	for _, rule := range rules {
		block, ok := c.blocks[rule.BlockID]
		if !ok {
			continue
		}
		if current, exists := byShow[rule.ShowID]; !exists || block.Priority < c.blocks[current].Priority {
			byShow[rule.ShowID] = rule.BlockID
		}
	}

	return func(slot *models.Timeslot) (uuid.UUID, bool) {
		show := slot.Show()
		if show == nil {
			return uuid.Nil, false
		}
		id, ok := byShow[show.ID]
		return id, ok
	}
}

// rangeHook matches a slot if its local offset from midnight falls inside
// a rule's [start, end) window. The offset is also tested shifted forward
// a day, so a window wrapping past midnight still catches slots that
// begin just after it. Among matching rules, the highest-priority block
// wins; ties break on earlier window start, then block tag.
func (c *Classifier) rangeHook(rules []*models.BlockRangeRule, loc *time.Location) matchHook {
	const day = 24 * time.Hour

	return func(slot *models.Timeslot) (uuid.UUID, bool) {
		delta := localtime.MidnightOffset(slot.StartTime, loc)

		var best *models.BlockRangeRule
		var bestBlock *models.Block
		for _, rule := range rules {
			block, ok := c.blocks[rule.BlockID]
			if !ok {
				continue
			}
			matched := false
			for _, offset := range []time.Duration{delta, delta + day} {
				if rule.StartOffset <= offset && offset < rule.EndOffset {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
			if best == nil || betterRangeMatch(block, rule, bestBlock, best) {
				best, bestBlock = rule, block
			}
		}
		if best == nil {
			return uuid.Nil, false
		}
		return best.BlockID, true
	}
}

// betterRangeMatch reports whether candidate beats the incumbent match.
func betterRangeMatch(block *models.Block, rule *models.BlockRangeRule, bestBlock *models.Block, best *models.BlockRangeRule) bool {
	if block.Priority != bestBlock.Priority {
		return block.Priority < bestBlock.Priority
	}
	if rule.StartOffset != best.StartOffset {
		return rule.StartOffset < best.StartOffset
	}
	return block.Tag < bestBlock.Tag
}

// defaultHook matches every remaining slot to the block carrying the
// configured default tag, if one exists.
func (c *Classifier) defaultHook(blocks []*models.Block, defaultTag string) matchHook {
	var def uuid.UUID
	found := false
	for _, b := range blocks {
		if b.Tag == defaultTag {
			def, found = b.ID, true
			break
		}
	}

	return func(_ *models.Timeslot) (uuid.UUID, bool) {
		return def, found
	}
}
