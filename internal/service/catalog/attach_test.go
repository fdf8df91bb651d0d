package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semlens/internal/domain"
)

func usersModel() domain.DbtModelNode {
	return domain.DbtModelNode{
		UniqueID:     "model.jaffle_shop.users",
		ResourceType: domain.DbtResourceTypeModel,
		Name:         "users",
		Database:     "analytics",
		Schema:       "public",
		RelationName: `"analytics"."public"."users"`,
		Columns: map[string]domain.DbtModelColumn{
			"id":         {Name: "id"},
			"created_at": {Name: "created_at"},
		},
		Compiled: true,
	}
}

func usersCatalog() WarehouseCatalog {
	return WarehouseCatalog{
		"analytics": {
			"public": {
				"users": {
					"id":         "NUMBER",
					"created_at": "TIMESTAMP",
				},
			},
		},
	}
}

func TestAttachTypes(t *testing.T) {
	models, err := AttachTypes([]domain.DbtModelNode{usersModel()}, usersCatalog(), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, models, 1)

	require.NotNil(t, models[0].Columns["id"].DataType)
	assert.Equal(t, "NUMBER", *models[0].Columns["id"].DataType)
	require.NotNil(t, models[0].Columns["created_at"].DataType)
	assert.Equal(t, "TIMESTAMP", *models[0].Columns["created_at"].DataType)
}

func TestAttachTypesDoesNotMutateInput(t *testing.T) {
	input := []domain.DbtModelNode{usersModel()}
	_, err := AttachTypes(input, usersCatalog(), DefaultOptions())
	require.NoError(t, err)
	assert.Nil(t, input[0].Columns["id"].DataType)
}

func TestAttachTypesCaseInsensitive(t *testing.T) {
	model := usersModel()
	model.Database = "ANALYTICS"
	model.Schema = "Public"
	model.Name = "Users"
	catalog := WarehouseCatalog{
		"analytics": {
			"public": {
				"users": {"ID": "NUMBER", "CREATED_AT": "TIMESTAMP"},
			},
		},
	}

	_, err := AttachTypes([]domain.DbtModelNode{model}, catalog, DefaultOptions())
	require.Error(t, err)
	var catalogErr *domain.MissingCatalogEntryError
	assert.ErrorAs(t, err, &catalogErr)

	models, err := AttachTypes([]domain.DbtModelNode{model}, catalog, Options{CaseSensitive: false, FailOnMissingEntry: true})
	require.NoError(t, err)
	require.NotNil(t, models[0].Columns["id"].DataType)
	assert.Equal(t, "NUMBER", *models[0].Columns["id"].DataType)
}

func TestAttachTypesCaseInsensitiveIsDeterministic(t *testing.T) {
	// two candidate keys differ only by case, the sorted-first one wins
	catalog := WarehouseCatalog{
		"analytics": {
			"public": {
				"USERS": {"id": "VARCHAR"},
				"Users": {"id": "NUMBER"},
			},
		},
	}
	model := usersModel()
	model.Columns = map[string]domain.DbtModelColumn{"id": {Name: "id"}}

	for i := 0; i < 10; i++ {
		models, err := AttachTypes([]domain.DbtModelNode{model}, catalog, Options{CaseSensitive: false, FailOnMissingEntry: true})
		require.NoError(t, err)
		assert.Equal(t, "VARCHAR", *models[0].Columns["id"].DataType)
	}
}

func TestAttachTypesMissingModel(t *testing.T) {
	model := usersModel()
	model.Schema = "staging"

	_, err := AttachTypes([]domain.DbtModelNode{model}, usersCatalog(), DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `model "users" not found`)
	assert.Contains(t, err.Error(), "analytics.staging.users")

	models, err := AttachTypes([]domain.DbtModelNode{model}, usersCatalog(), Options{CaseSensitive: true, FailOnMissingEntry: false})
	require.NoError(t, err)
	assert.Nil(t, models[0].Columns["id"].DataType)
}

func TestAttachTypesMissingColumn(t *testing.T) {
	model := usersModel()
	model.Columns["email"] = domain.DbtModelColumn{Name: "email"}

	_, err := AttachTypes([]domain.DbtModelNode{model}, usersCatalog(), DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `column "email" of model "users" not found`)

	models, err := AttachTypes([]domain.DbtModelNode{model}, usersCatalog(), Options{CaseSensitive: true, FailOnMissingEntry: false})
	require.NoError(t, err)
	assert.Nil(t, models[0].Columns["email"].DataType)
	require.NotNil(t, models[0].Columns["id"].DataType)
	assert.Equal(t, "NUMBER", *models[0].Columns["id"].DataType)
}
