package services

import (
	"path/filepath"
	"testing"

	"keepsake-backend/domain/scrapbook"
	"keepsake-backend/infrastructure/persistence/jsonfile"
	"keepsake-backend/pkg/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) *ScrapbookService {
	t.Helper()
	store := jsonfile.New(filepath.Join(t.TempDir(), "memories.json"), zap.NewNop())
	return NewScrapbookService(store, observability.NewCollector("test"), zap.NewNop())
}

func TestAddMoment_RecordsCompanionInteraction(t *testing.T) {
	svc := newTestService(t)

	moment, err := svc.AddMoment("Picnic", "Under the old oak", "🌳")
	require.NoError(t, err)
	assert.Equal(t, 1, moment.ID)
	assert.Equal(t, "🌳", moment.Emoji)

	doc := svc.Document()
	require.Len(t, doc.VisitorInteractions, 1)
	recorded := doc.VisitorInteractions[0]
	assert.Equal(t, InteractionMomentAdded, recorded.Type)
	assert.Equal(t, moment.ID, recorded.Data["moment_id"])
	assert.Equal(t, "Picnic", recorded.Data["title"])
}

func TestAddMoment_DefaultsEmoji(t *testing.T) {
	svc := newTestService(t)

	moment, err := svc.AddMoment("Picnic", "Under the old oak", "")
	require.NoError(t, err)
	assert.Equal(t, scrapbook.DefaultEmoji, moment.Emoji)
}

func TestAddAdorationItem_RecordsCompanionInteraction(t *testing.T) {
	svc := newTestService(t)

	item, err := svc.AddAdorationItem("Your laugh", "It fills the whole room")
	require.NoError(t, err)
	assert.Equal(t, 1, item.ID)

	doc := svc.Document()
	require.Len(t, doc.VisitorInteractions, 1)
	assert.Equal(t, InteractionAdorationAdded, doc.VisitorInteractions[0].Type)
	assert.Equal(t, "Your laugh", doc.VisitorInteractions[0].Data["label"])
}

func TestUpdateStoryAndSurprise_RecordInteractions(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.UpdateStory("Once upon a time"))
	require.NoError(t, svc.UpdateSurprise("Look behind you"))

	assert.Equal(t, "Once upon a time", svc.Story().Content)
	assert.Equal(t, "Look behind you", svc.Surprise().Content)

	analytics := svc.Analytics()
	assert.Equal(t, 2, analytics.TotalInteractions)
	assert.Equal(t, 1, analytics.InteractionsByType[InteractionStoryUpdated])
	assert.Equal(t, 1, analytics.InteractionsByType[InteractionSurpriseUpdated])
}

func TestAnalytics_TracksLastInteraction(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.RecordInteraction("page_view", nil)
	require.NoError(t, err)
	last, err := svc.RecordInteraction("scroll_to_end", map[string]interface{}{"complete": true})
	require.NoError(t, err)

	analytics := svc.Analytics()
	assert.Equal(t, 2, analytics.TotalInteractions)
	require.NotNil(t, analytics.LastInteraction)
	assert.Equal(t, last.Type, analytics.LastInteraction.Type)
	assert.Equal(t, last.Timestamp, analytics.LastInteraction.Timestamp)
}

func TestUpdateTheme_ReturnsMergedTheme(t *testing.T) {
	svc := newTestService(t)

	theme, err := svc.UpdateTheme(map[string]string{"accent_color": "#123456"})
	require.NoError(t, err)
	assert.Equal(t, "#123456", theme["accent_color"])
	assert.Equal(t, "#8B4757", theme["primary_color"])
}
