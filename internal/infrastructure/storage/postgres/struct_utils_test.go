package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/catalogs/client"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/documents/wzpz"
)

type RowBase struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

type SampleRow struct {
	RowBase
	Code    string `db:"code"`
	Skipped string `db:"-"`
	NoTag   string
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[SampleRow]()
	assert.Equal(t, []string{"id", "name", "code"}, cols)
}

func TestExtractDBColumns_Pointer(t *testing.T) {
	cols := ExtractDBColumns[*SampleRow]()
	assert.Equal(t, []string{"id", "name", "code"}, cols)
}

func TestExtractDBColumns_DomainTypes(t *testing.T) {
	cols := ExtractDBColumns[*client.Client]()
	assert.Contains(t, cols, "id")
	assert.Contains(t, cols, "code")
	assert.Contains(t, cols, "nip")
	assert.Contains(t, cols, "version")

	docCols := ExtractDBColumns[*wzpz.Document]()
	assert.Contains(t, docCols, "doc_type")
	assert.Contains(t, docCols, "number")
	assert.Contains(t, docCols, "sequence")
}

func TestStructToMap(t *testing.T) {
	v := SampleRow{
		RowBase: RowBase{ID: "1", Name: "saw"},
		Code:    "BL-00001",
		Skipped: "nope",
		NoTag:   "nope",
	}

	m := StructToMap(v)
	assert.Equal(t, "1", m["id"])
	assert.Equal(t, "saw", m["name"])
	assert.Equal(t, "BL-00001", m["code"])
	assert.Len(t, m, 3)
}

func TestStructToMap_Pointer(t *testing.T) {
	m := StructToMap(&SampleRow{Code: "X"})
	assert.Equal(t, "X", m["code"])
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
}
