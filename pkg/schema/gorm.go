package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all schema models in creation order.
func AllModels() []DDLGenerator {
	return []DDLGenerator{
		&Reference{},
		&Molecule{},
		&Element{},
		&ElementPart{},
		&Sequence{},
		&Sample{},
		&Alignment{},
		&Variant{},
		&Alignment2Variant{},
		&Property{},
		&Sample2Property{},
		&Lineage{},
	}
}

// TableNames returns names of all tables in creation order.
func TableNames() []string {
	models := AllModels()
	res := make([]string, len(models))
	for i := range models {
		res[i] = models[i].TableName()
	}
	return res
}

// DDL returns CREATE TABLE and CREATE INDEX statements for all models.
// The statements are valid for both SQLite and PostgreSQL.
func DDL() []string {
	var res []string
	for _, m := range AllModels() {
		res = append(res, m.TableDDL())
		res = append(res, m.IndexDDL()...)
	}
	return res
}

// Migrate runs GORM AutoMigrate to create or update schema.
func Migrate(db *gorm.DB) error {
	models := AllModels()
	dst := make([]any, len(models))
	for i := range models {
		dst[i] = models[i]
	}
	return db.AutoMigrate(dst...)
}
