package profile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProfileRoundTrip(t *testing.T) {
	p, err := ParseProfile("Age: 27\nOccupation: None\nLooking For: someone kind")
	require.NoError(t, err)

	require.NotNil(t, p.Age)
	assert.Equal(t, 27, *p.Age)
	assert.Nil(t, p.Occupation)
	require.NotNil(t, p.LookingFor)
	assert.Equal(t, "someone kind", *p.LookingFor)
}

func TestParseProfileFullDocument(t *testing.T) {
	text := `Bio: I love long walks on the beach.
Sunsets are my favorite thing in the world.
Interests: hiking, photography, , cooking
Fun Facts:
- I once ran a marathon
- I speak three languages
Age: 31
Occupation: Marine biologist
Looking For: something real
Height: 5'7"
Body Type: athletic
Measurements: none`

	p, err := ParseProfile(text)
	require.NoError(t, err)

	require.NotNil(t, p.Bio)
	assert.Equal(t, "I love long walks on the beach. Sunsets are my favorite thing in the world.", *p.Bio)
	assert.Equal(t, []string{"hiking", "photography", "cooking"}, p.Interests)
	assert.Equal(t, []string{"I once ran a marathon", "I speak three languages"}, p.FunFacts)
	require.NotNil(t, p.Age)
	assert.Equal(t, 31, *p.Age)
	require.NotNil(t, p.Occupation)
	assert.Equal(t, "Marine biologist", *p.Occupation)
	require.NotNil(t, p.Height)
	assert.Equal(t, `5'7"`, *p.Height)
	require.NotNil(t, p.BodyType)
	assert.Equal(t, "athletic", *p.BodyType)
	assert.Nil(t, p.Measurements)
}

func TestParseProfileBioAccumulatesUntilNextLabel(t *testing.T) {
	text := `Bio: First sentence.
Second sentence.
Age: 24
Third sentence is not bio anymore`

	p, err := ParseProfile(text)
	require.NoError(t, err)

	require.NotNil(t, p.Bio)
	assert.Equal(t, "First sentence. Second sentence.", *p.Bio)
	require.NotNil(t, p.Age)
	assert.Equal(t, 24, *p.Age)
}

func TestParseProfileMarkdownLabels(t *testing.T) {
	p, err := ParseProfile("**Age:** 22\n__Occupation:__ barista")
	require.NoError(t, err)

	require.NotNil(t, p.Age)
	assert.Equal(t, 22, *p.Age)
	require.NotNil(t, p.Occupation)
	assert.Equal(t, "barista", *p.Occupation)
}

func TestParseProfileTolerantFieldFailures(t *testing.T) {
	tests := []struct {
		name string
		text string
		want func(t *testing.T, p *DatingProfile)
	}{
		{
			name: "non numeric age stays unset",
			text: "Age: twenty-seven",
			want: func(t *testing.T, p *DatingProfile) { assert.Nil(t, p.Age) },
		},
		{
			name: "empty age stays unset",
			text: "Age:",
			want: func(t *testing.T, p *DatingProfile) { assert.Nil(t, p.Age) },
		},
		{
			name: "empty occupation stays unset",
			text: "Occupation:",
			want: func(t *testing.T, p *DatingProfile) { assert.Nil(t, p.Occupation) },
		},
		{
			name: "none marker is case-insensitive",
			text: "Looking For: NONE",
			want: func(t *testing.T, p *DatingProfile) { assert.Nil(t, p.LookingFor) },
		},
		{
			name: "height keeps none verbatim",
			text: "Height: none",
			want: func(t *testing.T, p *DatingProfile) {
				require.NotNil(t, p.Height)
				assert.Equal(t, "none", *p.Height)
			},
		},
		{
			name: "lowercase label is not recognized",
			text: "age: 27",
			want: func(t *testing.T, p *DatingProfile) { assert.Nil(t, p.Age) },
		},
		{
			name: "unrecognized lines outside sections are ignored",
			text: "random chatter\nAge: 30\nmore chatter",
			want: func(t *testing.T, p *DatingProfile) {
				require.NotNil(t, p.Age)
				assert.Equal(t, 30, *p.Age)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseProfile(tt.text)
			require.NoError(t, err)
			tt.want(t, p)
		})
	}
}

func TestParseProfileEmptyInput(t *testing.T) {
	p, err := ParseProfile("")
	require.NoError(t, err)

	assert.Nil(t, p.Bio)
	assert.Empty(t, p.Interests)
	assert.Empty(t, p.FunFacts)
	assert.Nil(t, p.Age)
}

func TestParseProfileJSONNullability(t *testing.T) {
	p, err := ParseProfile("Age: 27")
	require.NoError(t, err)

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &m))

	// Absent optionals serialize as explicit nulls, lists as empty arrays.
	assert.Equal(t, "null", string(m["bio"]))
	assert.Equal(t, "null", string(m["occupation"]))
	assert.Equal(t, "[]", string(m["interests"]))
	assert.Equal(t, "[]", string(m["funFacts"]))
	assert.Equal(t, "27", string(m["age"]))
}
