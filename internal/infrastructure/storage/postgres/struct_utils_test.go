package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stockgap/internal/core/id"
	"stockgap/internal/domain/catalogs/warehouse"
)

type MockBase struct {
	ID   id.ID  `db:"id" json:"id"`
	Code string `db:"code" json:"code"`
}

type MockCatalog struct {
	MockBase
	Name     string `db:"name" json:"name"`
	Internal string `db:"-"`
	NoTag    string
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[MockCatalog]()

	assert.Equal(t, []string{"id", "code", "name"}, cols)
}

func TestExtractDBColumns_Warehouse(t *testing.T) {
	cols := ExtractDBColumns[warehouse.Warehouse]()

	expectedCols := []string{"id", "code", "name", "type", "root_location_id", "address", "is_active"}
	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
	assert.Len(t, cols, len(expectedCols))
}

func TestStructToMap(t *testing.T) {
	cat := MockCatalog{
		MockBase: MockBase{ID: id.New(), Code: "WH1"},
		Name:     "Main warehouse",
		Internal: "hidden",
		NoTag:    "hidden",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, "WH1", m["code"])
	assert.Equal(t, "Main warehouse", m["name"])
	assert.Len(t, m, 3)
}

func TestStructToMap_PointerAndNonStruct(t *testing.T) {
	cat := &MockCatalog{Name: "via pointer"}

	m := StructToMap(cat)
	assert.Equal(t, "via pointer", m["name"])

	assert.Nil(t, StructToMap(42))
	assert.Nil(t, StructToMap("not a struct"))
}

type unexportedBase struct {
	Hidden string `db:"hidden"`
}

type mixedEmbed struct {
	unexportedBase
	Name string `db:"name"`
}

func TestStructToMap_SkipsUnexportedEmbed(t *testing.T) {
	m := StructToMap(mixedEmbed{
		unexportedBase: unexportedBase{Hidden: "x"},
		Name:           "visible",
	})

	assert.Equal(t, map[string]any{"name": "visible"}, m)
	assert.Equal(t, []string{"name"}, ExtractDBColumns[mixedEmbed]())
}

func TestStructToMap_NilPointerField(t *testing.T) {
	wh := warehouse.Warehouse{
		ID:       id.New(),
		Code:     "WH2",
		Name:     "Depot",
		Type:     warehouse.TypeDepot,
		IsActive: true,
	}

	m := StructToMap(wh)

	// Nil optional columns are carried as typed nils so inserts write NULL.
	assert.Equal(t, (*id.ID)(nil), m["root_location_id"])
	assert.Equal(t, (*string)(nil), m["address"])
}
