package vcard

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Classifies(t *testing.T) {
	c, err := NewBuilder().
		Version(V40).
		FormattedName("Jane").
		AddPhone("1", "cell", "CELL", "Cell", "x-a", "X-A", "x-b").
		AddAddress(PostalAddress{CustomTypes: []string{"home", "x-po"}}).
		Build()
	require.NoError(t, err)

	phone := c.PhoneNumbers()[0]
	assert.Equal(t, []PhoneType{PhoneCell}, phone.StandardTypes)
	assert.Equal(t, []string{"x-a", "x-b"}, phone.CustomTypes)

	addr := c.Addresses()[0]
	assert.Equal(t, []AddressType{AddressHome}, addr.StandardTypes)
	assert.Equal(t, []string{"x-po"}, addr.CustomTypes)
}

func TestBuilder_CommaInTypes(t *testing.T) {
	want := NewBuilder().
		Version(V30).
		FormattedName("c").
		AddPhone("1", "home", "x y", "a,b").
		AddEmail("e@x", "internet,x-alt").
		AddAddress(PostalAddress{CustomTypes: []string{"x-po,home"}, Street: "s"}).
		MustBuild()

	phone := want.PhoneNumbers()[0]
	assert.Equal(t, []PhoneType{PhoneHome}, phone.StandardTypes)
	assert.Equal(t, []string{"x y", "a", "b"}, phone.CustomTypes)
	assert.Equal(t, []EmailType{EmailInternet}, want.Emails()[0].StandardTypes)
	assert.Equal(t, []string{"x-alt"}, want.Emails()[0].CustomTypes)
	assert.Equal(t, []AddressType{AddressHome}, want.Addresses()[0].StandardTypes)

	got, err := ParseWithOptions(Render(want), StrictReaderOptions())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, want.Equal(got[0]), "render and parse changed the card:\n%s", Render(want))
}

func TestBuilder_RequiredFields(t *testing.T) {
	_, err := NewBuilder().FormattedName("x").Build()
	assert.ErrorIs(t, err, ErrMissingRequiredField)

	_, err = NewBuilder().Version(V30).FormattedName(" ").Build()
	assert.ErrorIs(t, err, ErrMissingRequiredField)

	assert.Panics(t, func() { NewBuilder().MustBuild() })
}

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name string
		b    *Builder
	}{
		{"unknown version", NewBuilder().Version(VersionUnknown)},
		{"unknown kind", NewBuilder().Kind("robot")},
		{"empty raw name", NewBuilder().AddRaw("", "v")},
		{"raw name with colon", NewBuilder().AddRaw("X:Y", "v")},
		{"raw name with empty base", NewBuilder().AddRaw("item1.", "v")},
		{"recognized raw name", NewBuilder().AddRaw("tel", "1")},
		{"recognized grouped raw name", NewBuilder().AddRaw("item1.EMAIL", "a@b")},
		{"malformed property", NewBuilder().AddProperty("no separator")},
		{"bad photo property", NewBuilder().AddProperty("PHOTO;ENCODING=b:***")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.b.Version(V30).FormattedName("x").Build()
			assert.Error(t, err)
		})
	}
}

func TestBuilder_FirstErrorWins(t *testing.T) {
	_, err := NewBuilder().Kind("robot").AddRaw("", "v").Version(V30).FormattedName("x").Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "robot")
}

func TestBuilder_AddProperty(t *testing.T) {
	c, err := NewBuilder().
		AddProperty("VERSION:3.0").
		AddProperty("FN:Jane").
		AddProperty("TEL;TYPE=WORK,x-desk:555").
		AddProperty("item2.X-ABLABEL:Desk").
		Build()
	require.NoError(t, err)

	assert.Equal(t, V30, c.Version())
	assert.True(t, c.PhoneNumbers()[0].IsType(PhoneWork))
	assert.True(t, c.PhoneNumbers()[0].HasCustomType("X-DESK"))
	assert.Equal(t, []string{"Desk"}, c.RawProperty("item2.x-ablabel"))
}

func TestBuilder_Photo(t *testing.T) {
	c := NewBuilder().Version(V30).FormattedName("p").PhotoURI("http://x/y").PhotoData([]byte("z")).MustBuild()
	assert.Equal(t, []byte("z"), c.PhotoData())
	assert.Empty(t, c.PhotoURI())

	c = NewBuilderFrom(c).PhotoURI("http://x/y").MustBuild()
	assert.Nil(t, c.PhotoData())
	assert.Equal(t, "http://x/y", c.PhotoURI())

	c = NewBuilderFrom(c).PhotoData(nil).MustBuild()
	assert.Equal(t, "http://x/y", c.PhotoURI())

	empty := NewBuilder().Version(V30).FormattedName("p").PhotoData([]byte{}).MustBuild()
	assert.NotNil(t, empty.PhotoData())
	assert.True(t, empty.HasPhoto())
}

func TestBuilder_GenerateUID(t *testing.T) {
	c := NewBuilder().Version(V40).FormattedName("u").GenerateUID().GenerateUID().MustBuild()

	uids := c.RawProperty("UID")
	require.Len(t, uids, 1)
	require.True(t, strings.HasPrefix(uids[0], "urn:uuid:"))
	_, err := uuid.Parse(strings.TrimPrefix(uids[0], "urn:uuid:"))
	assert.NoError(t, err)
}

func TestBuilder_From(t *testing.T) {
	orig := NewBuilder().Version(V30).FormattedName("a").AddPhone("1", "home").MustBuild()
	changed := NewBuilderFrom(orig).FormattedName("b").AddPhone("2").MustBuild()

	assert.Equal(t, "a", orig.FormattedName())
	assert.Len(t, orig.PhoneNumbers(), 1)
	assert.Equal(t, "b", changed.FormattedName())
	assert.Len(t, changed.PhoneNumbers(), 2)
}

func TestBuilder_Reuse(t *testing.T) {
	b := NewBuilder().Version(V30).FormattedName("a")
	first := b.MustBuild()
	second := b.AddEmail("x@y").MustBuild()

	assert.Empty(t, first.Emails())
	assert.Len(t, second.Emails(), 1)
}
