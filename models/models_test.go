package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGroupType(t *testing.T) {
	tests := []struct {
		in      string
		want    GroupType
		wantErr bool
	}{
		{in: "camps", want: GroupTypeCamp},
		{in: "Camp", want: GroupTypeCamp},
		{in: "arts", want: GroupTypeArtInstallation},
		{in: "art_installation", want: GroupTypeArtInstallation},
		{in: "prods", want: GroupTypeProduction},
		{in: "", wantErr: true},
		{in: "villages", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseGroupType(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGroup_ResetMetrics(t *testing.T) {
	g := &Group{
		ID:           7,
		MembersCount: 12,
		Tickets:      nil,
	}

	g.ResetMetrics()

	assert.Equal(t, 0, g.MembersCount)
	assert.NotNil(t, g.Tickets)
	assert.NotNil(t, g.FormerTickets)
	assert.NotNil(t, g.Allocations)
	assert.Empty(t, g.Tickets)
}

func TestGroup_JSONNeverNullSlices(t *testing.T) {
	g := &Group{ID: 1}
	g.ResetMetrics()

	data, err := json.Marshal(g)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []interface{}{}, decoded["tickets"])
	assert.Equal(t, []interface{}{}, decoded["former_tickets"])
	assert.Equal(t, float64(0), decoded["members_count"])
}

func TestNewAuditRecord(t *testing.T) {
	rec := NewAuditRecord(AuditTypePresaleAllocationsAdmin, 42)

	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, AuditTypePresaleAllocationsAdmin, rec.Type)
	assert.Equal(t, 42, rec.UpdatedBy)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.Equal(t, "audits", rec.TableName())
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Dana Levi", (&User{FirstName: "Dana", LastName: "Levi"}).DisplayName())
	assert.Equal(t, "dana@example.com", (&User{Email: "dana@example.com"}).DisplayName())
}

func TestConfiguration_FormerEventID(t *testing.T) {
	var nilCfg *Configuration
	assert.Equal(t, "", nilCfg.FormerEventID())

	cfg := NewConfiguration()
	assert.Equal(t, "", cfg.FormerEventID())

	cfg.Values[ConfigKeyFormerEventID] = "MIDBURN2018"
	assert.Equal(t, "MIDBURN2018", cfg.FormerEventID())
}
