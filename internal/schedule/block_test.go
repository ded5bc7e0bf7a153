package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/mwhitehouse/airwave/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixtureClassifier(t *testing.T, f *fixture, defaultTag string) *Classifier {
	t.Helper()
	classifier, err := LoadClassifier(context.Background(), f.blocks, defaultTag, f.loc)
	require.NoError(t, err)
	return classifier
}

func annotateOne(c *Classifier, slot *models.Timeslot) *models.Block {
	c.Annotate([]*models.Timeslot{slot})
	return slot.Block
}

func TestAnnotate_ShowRuleWins(t *testing.T) {
	f := newFixture(t)

	flagship := models.NewBlock("Flagship", "flagship", 0)
	evening := models.NewBlock("Evening", "evening", 5)
	f.blocks.blocks = []*models.Block{flagship, evening}

	show := f.addShow("Pinned Show")
	f.blocks.showRules = []*models.BlockShowRule{
		{ID: newID(), BlockID: flagship.ID, ShowID: show.ID},
	}
	// A range rule that would also match; the show rule takes precedence.
	f.blocks.rangeRules = []*models.BlockRangeRule{
		{ID: newID(), BlockID: evening.ID, StartOffset: 0, EndOffset: Day},
	}

	slot := f.addSlot(t, show, time.Date(2011, 11, 7, 19, 0, 0, 0, time.UTC), time.Hour)
	block := annotateOne(loadFixtureClassifier(t, f, "regular"), slot)

	require.NotNil(t, block)
	assert.Equal(t, "flagship", block.Tag)
}

func TestAnnotate_ShowRulePriorityTie(t *testing.T) {
	f := newFixture(t)

	major := models.NewBlock("Major", "major", 1)
	minor := models.NewBlock("Minor", "minor", 9)
	f.blocks.blocks = []*models.Block{minor, major}

	show := f.addShow("Doubly Pinned")
	f.blocks.showRules = []*models.BlockShowRule{
		{ID: newID(), BlockID: minor.ID, ShowID: show.ID},
		{ID: newID(), BlockID: major.ID, ShowID: show.ID},
	}

	slot := f.addSlot(t, show, time.Date(2011, 11, 7, 12, 0, 0, 0, time.UTC), time.Hour)
	block := annotateOne(loadFixtureClassifier(t, f, "regular"), slot)

	require.NotNil(t, block)
	assert.Equal(t, "major", block.Tag, "lowest priority number should win")
}

func TestAnnotate_RangeRule(t *testing.T) {
	f := newFixture(t)

	daytime := models.NewBlock("Daytime", "daytime", 5)
	f.blocks.blocks = []*models.Block{daytime}
	f.blocks.rangeRules = []*models.BlockRangeRule{
		{ID: newID(), BlockID: daytime.ID, StartOffset: 9 * time.Hour, EndOffset: 17 * time.Hour},
	}
	classifier := loadFixtureClassifier(t, f, "missing")
	show := f.addShow("Lunchtime Show")

	// Inside the window.
	inside := f.addSlot(t, show, time.Date(2011, 11, 7, 12, 0, 0, 0, time.UTC), time.Hour)
	block := annotateOne(classifier, inside)
	require.NotNil(t, block)
	assert.Equal(t, "daytime", block.Tag)

	// The window end is exclusive.
	atEnd := f.addSlot(t, show, time.Date(2011, 11, 7, 17, 0, 0, 0, time.UTC), time.Hour)
	assert.Nil(t, annotateOne(classifier, atEnd))

	// Outside the window, no default configured: left unannotated.
	outside := f.addSlot(t, show, time.Date(2011, 11, 7, 20, 0, 0, 0, time.UTC), time.Hour)
	assert.Nil(t, annotateOne(classifier, outside))
}

func TestAnnotate_RangeRuleWrapsMidnight(t *testing.T) {
	f := newFixture(t)

	night := models.NewBlock("Night", "night", 5)
	f.blocks.blocks = []*models.Block{night}
	// 23:00 local to 01:00 local next day, expressed as an offset window
	// running past 24h.
	f.blocks.rangeRules = []*models.BlockRangeRule{
		{ID: newID(), BlockID: night.ID, StartOffset: 23 * time.Hour, EndOffset: 25 * time.Hour},
	}
	classifier := loadFixtureClassifier(t, f, "missing")
	show := f.addShow("Night Owls")

	// 00:30 local is offset 30m; shifted a day forward it is 24h30m,
	// inside the window.
	early := f.addSlot(t, show, time.Date(2011, 11, 8, 0, 30, 0, 0, time.UTC), time.Hour)
	block := annotateOne(classifier, early)
	require.NotNil(t, block)
	assert.Equal(t, "night", block.Tag)

	// 23:30 matches directly.
	late := f.addSlot(t, show, time.Date(2011, 11, 7, 23, 30, 0, 0, time.UTC), 30*time.Minute)
	block = annotateOne(classifier, late)
	require.NotNil(t, block)
	assert.Equal(t, "night", block.Tag)

	// 01:30 is past the wrapped end.
	past := f.addSlot(t, show, time.Date(2011, 11, 8, 1, 30, 0, 0, time.UTC), time.Hour)
	assert.Nil(t, annotateOne(classifier, past))
}

func TestAnnotate_RangeRulePrecedence(t *testing.T) {
	f := newFixture(t)

	specialist := models.NewBlock("Specialist", "specialist", 2)
	general := models.NewBlock("General", "general", 8)
	f.blocks.blocks = []*models.Block{general, specialist}
	f.blocks.rangeRules = []*models.BlockRangeRule{
		{ID: newID(), BlockID: general.ID, StartOffset: 0, EndOffset: Day},
		{ID: newID(), BlockID: specialist.ID, StartOffset: 19 * time.Hour, EndOffset: 22 * time.Hour},
	}
	classifier := loadFixtureClassifier(t, f, "missing")
	show := f.addShow("Overlapped Show")

	slot := f.addSlot(t, show, time.Date(2011, 11, 7, 20, 0, 0, 0, time.UTC), time.Hour)
	block := annotateOne(classifier, slot)

	require.NotNil(t, block)
	assert.Equal(t, "specialist", block.Tag, "higher-priority block should win overlapping windows")
}

func TestAnnotate_DefaultBlock(t *testing.T) {
	f := newFixture(t)

	regular := models.NewBlock("Regular", "regular", 10)
	f.blocks.blocks = []*models.Block{regular}
	classifier := loadFixtureClassifier(t, f, "regular")

	show := f.addShow("Unmatched Show")
	slot := f.addSlot(t, show, time.Date(2011, 11, 7, 12, 0, 0, 0, time.UTC), time.Hour)

	block := annotateOne(classifier, slot)
	require.NotNil(t, block)
	assert.Equal(t, "regular", block.Tag)
}

func TestAnnotate_NoDefaultConfigured(t *testing.T) {
	f := newFixture(t)
	classifier := loadFixtureClassifier(t, f, "regular")

	show := f.addShow("Orphan Show")
	slot := f.addSlot(t, show, time.Date(2011, 11, 7, 12, 0, 0, 0, time.UTC), time.Hour)

	assert.Nil(t, annotateOne(classifier, slot))
}
