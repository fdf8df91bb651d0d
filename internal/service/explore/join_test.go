package explore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semlens/internal/domain"
)

func joinFixture(t *testing.T, joins []domain.DbtJoin) (*domain.DbtModelNode, map[string]*domain.Table) {
	t.Helper()

	orders := compiledModel("orders", map[string]domain.DbtModelColumn{
		"user_id": column("user_id", "NUMBER"),
		"amount":  column("amount", "NUMBER"),
	})
	orders.Meta = &domain.DbtModelMeta{Joins: joins}

	users := compiledModel("users", map[string]domain.DbtModelColumn{
		"id":   column("id", "NUMBER"),
		"name": column("name", "STRING"),
	})

	tables := make(map[string]*domain.Table)
	for _, m := range []domain.DbtModelNode{orders, users} {
		table, err := ConvertTable(domain.AdapterPostgres, &m, nil)
		require.NoError(t, err)
		tables[m.Name] = table
	}
	return &orders, tables
}

func TestCompileExplore(t *testing.T) {
	model, tables := joinFixture(t, []domain.DbtJoin{
		{Join: "users", SQLOn: "${orders.user_id} = ${users.id}"},
	})

	explore, err := CompileExplore(model, tables, domain.AdapterPostgres)
	require.NoError(t, err)

	assert.Equal(t, "orders", explore.Name)
	assert.Equal(t, "orders", explore.BaseTable)
	assert.Equal(t, domain.AdapterPostgres, explore.TargetDatabase)
	require.Len(t, explore.Joins, 1)
	assert.Equal(t, domain.CompiledJoin{Table: "users", SQLOn: "${orders.user_id} = ${users.id}", Label: "Users"}, explore.Joins[0])
	assert.Len(t, explore.Tables, 2)
}

func TestCompileExploreNoJoins(t *testing.T) {
	model, tables := joinFixture(t, nil)

	explore, err := CompileExplore(model, tables, domain.AdapterPostgres)
	require.NoError(t, err)
	assert.Empty(t, explore.Joins)
	require.Len(t, explore.Tables, 1)
	_, ok := explore.Tables["orders"]
	assert.True(t, ok)
}

func TestCompileExploreErrors(t *testing.T) {
	tests := []struct {
		name    string
		joins   []domain.DbtJoin
		wantErr string
	}{
		{
			name:    "unknown join target",
			joins:   []domain.DbtJoin{{Join: "payments", SQLOn: "${orders.id} = ${payments.order_id}"}},
			wantErr: `joins unknown table "payments"`,
		},
		{
			name:    "missing sql_on",
			joins:   []domain.DbtJoin{{Join: "users"}},
			wantErr: "has no sql_on condition",
		},
		{
			name:    "condition references unjoined table",
			joins:   []domain.DbtJoin{{Join: "users", SQLOn: "${orders.user_id} = ${accounts.id}"}},
			wantErr: `references table "accounts"`,
		},
		{
			name:    "condition references unknown field",
			joins:   []domain.DbtJoin{{Join: "users", SQLOn: "${orders.user_id} = ${users.uuid}"}},
			wantErr: "unknown field users.uuid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, tables := joinFixture(t, tt.joins)
			_, err := CompileExplore(model, tables, domain.AdapterPostgres)
			require.Error(t, err)
			var parseErr *domain.ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
