package configurator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wmbgolfco/engraving-backend/internal/catalog"
	"github.com/wmbgolfco/engraving-backend/pkg/enums"
	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
)

func TestDisplayNameAccessories(t *testing.T) {
	s := newSession(t, enums.FlowEngraving, enums.CategoryBallMarkers)
	require.NoError(t, s.SetPersonalisationMode(enums.PersonalisationInitials))
	require.NoError(t, s.SetInitials("jd"))
	require.NoError(t, s.SetColourVariant(enums.ColourBrass))
	assert.Equal(t, `Ball Markers - Brass - "JD" (Times New Roman)`, s.DisplayName())
	assert.Equal(t, "/ball-marker-brass.jpg", s.ImageRef())

	require.NoError(t, s.SetLogo(LogoAsset{Ref: "r", FileName: "crest.png"}))
	require.NoError(t, s.SetPersonalisationMode(enums.PersonalisationLogo))
	assert.Equal(t, "Ball Markers - Brass - Custom Logo", s.DisplayName())

	tags := newSession(t, enums.FlowEngraving, enums.CategoryBagTags)
	require.NoError(t, tags.SetPersonalisationMode(enums.PersonalisationName))
	require.NoError(t, tags.SetName("Tiger"))
	require.NoError(t, tags.SetFont(enums.FontGeorgia))
	assert.Equal(t, `Bag Tags - "Tiger" (Georgia)`, tags.DisplayName())
}

func TestDisplayNameClubs(t *testing.T) {
	wedge := newSession(t, enums.FlowEngraving, enums.CategoryWedges)
	require.NoError(t, wedge.SetPattern(enums.PatternZigZag))
	assert.Equal(t, "Wedges - Zig Zag Pattern", wedge.DisplayName())

	require.NoError(t, wedge.SetConfigurationType(enums.ConfigurationCustom))
	assert.Equal(t, "Wedges - Custom Design", wedge.DisplayName())

	page := newSession(t, enums.FlowProductPage, enums.CategoryWedges)
	require.NoError(t, page.SetPattern(enums.PatternDamascus))
	require.NoError(t, page.SetInitials("abc"))
	assert.Equal(t, `Wedges - Damascus Pattern - "ABC"`, page.DisplayName())

	require.NoError(t, page.SetConfigurationType(enums.ConfigurationIllustrations))
	assert.Equal(t, "Wedges - Custom Illustration", page.DisplayName())
}

func TestValidateQuoteOnly(t *testing.T) {
	for _, id := range []enums.CategoryID{enums.CategoryIrons, enums.CategoryPutters} {
		s := newSession(t, enums.FlowEngraving, id)
		assert.True(t, s.QuoteOnly())
		err := s.Validate()
		require.Error(t, err)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeQuoteOnly))
	}

	wedge := newSession(t, enums.FlowProductPage, enums.CategoryWedges)
	require.NoError(t, wedge.SetConfigurationType(enums.ConfigurationIllustrations))
	assert.True(t, pkgerrors.IsCode(wedge.Validate(), pkgerrors.CodeQuoteOnly))
}

func TestValidateWedgeNeedsPatternOnEngravingPage(t *testing.T) {
	s := newSession(t, enums.FlowEngraving, enums.CategoryWedges)
	err := s.Validate()
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	require.NoError(t, s.SetPattern(enums.PatternHexagonal))
	assert.NoError(t, s.Validate())

	page := newSession(t, enums.FlowProductPage, enums.CategoryWedges)
	assert.NoError(t, page.Validate(), "product page wedges can be plain")
}

func TestValidateAccessoryModes(t *testing.T) {
	s := newSession(t, enums.FlowEngraving, enums.CategoryDivotTools)
	assert.NoError(t, s.Validate())

	require.NoError(t, s.SetPersonalisationMode(enums.PersonalisationLogo))
	assert.Error(t, s.Validate())
	require.NoError(t, s.SetLogo(LogoAsset{Ref: "r", FileName: "logo.svg"}))
	assert.NoError(t, s.Validate())

	require.NoError(t, s.SetPersonalisationMode(enums.PersonalisationInitials))
	assert.Error(t, s.Validate())
}

func TestBuildReplaysInput(t *testing.T) {
	s, err := Build(catalog.Default(), Input{
		Category: "ball-markers",
		Mode:     "initials",
		Initials: "xyz",
		Font:     "verdana",
		Colour:   "black",
		Notes:    "  gift  ",
	})
	require.NoError(t, err)
	st := s.State()
	assert.Equal(t, "XY", st.Initials)
	assert.Equal(t, enums.FontVerdana, st.Font)
	assert.Equal(t, enums.ColourBlack, st.Colour)
	assert.Equal(t, "gift", st.Notes)
	assert.Equal(t, enums.FlowEngraving, st.Flow)

	_, err = Build(catalog.Default(), Input{Category: "wedges", Pattern: "paisley"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = Build(catalog.Default(), Input{Category: "wedges", Mode: "logo"})
	require.Error(t, err)

	_, err = Build(catalog.Default(), Input{Category: ""})
	require.Error(t, err)
}

func TestValidateAccessoryNeedsPersonalisationText(t *testing.T) {
	marker := newSession(t, enums.FlowEngraving, enums.CategoryBallMarkers)
	require.NoError(t, marker.SetPersonalisationMode(enums.PersonalisationInitials))
	err := marker.Validate()
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	require.NoError(t, marker.SetInitials("ab"))
	assert.NoError(t, marker.Validate())

	tag := newSession(t, enums.FlowEngraving, enums.CategoryBagTags)
	require.NoError(t, tag.SetPersonalisationMode(enums.PersonalisationName))
	assert.True(t, pkgerrors.IsCode(tag.Validate(), pkgerrors.CodeValidation))
	require.NoError(t, tag.SetName("Tiger"))
	assert.NoError(t, tag.Validate())
}
