/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"errors"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/internal/iodb"
	"github.com/gnames/gnvariants/internal/ioschema"
	"github.com/gnames/gnvariants/pkg/config"
	"github.com/gnames/gnvariants/pkg/db"
	"github.com/gnames/gnvariants/pkg/errcode"
	"github.com/gnames/gnvariants/pkg/lifecycle"
	"github.com/gnames/gnvariants/pkg/property"
	"github.com/gnames/gnvariants/pkg/reference"
)

// connect opens the relational store of the configuration.
func connect(ctx context.Context) (db.Operator, error) {
	if cfg.Database.Driver == "sqlite" {
		cfg.Update([]config.Option{config.OptDatabasePath(cfg.SQLitePath())})
	}
	op, err := iodb.NewOperator(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}
	if err = op.Connect(ctx, &cfg.Database); err != nil {
		return nil, err
	}

	if op.Driver() == "sqlite" {
		gn.Info("Connected to SQLite: <em>%s</em>", cfg.Database.Path)
	} else {
		gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
			cfg.Database.User, cfg.Database.Host,
			cfg.Database.Port, cfg.Database.Database)
	}
	return op, nil
}

// domain is the reference data stored by the create command.
type domain struct {
	schema   lifecycle.SchemaManager
	catalog  *reference.Catalog
	props    *property.Schema
	lineages *property.Lineages
}

// loadDomain reads references and properties from a store created
// before.
func loadDomain(ctx context.Context, op db.Operator) (*domain, error) {
	hasTables, err := op.HasTables(ctx)
	if err != nil {
		return nil, err
	}
	if !hasTables {
		return nil, &gn.Error{
			Code: errcode.DBEmptyDatabaseError,
			Msg: `<err>Database appears to be empty.</err>
   Run <em>'gnvariants create'</em> first to initialize the schema.`,
			Err: errors.New("database has no tables"),
		}
	}

	res := &domain{schema: ioschema.NewManager(op)}
	if res.catalog, err = res.schema.Catalog(ctx); err != nil {
		return nil, err
	}
	if res.props, res.lineages, err = res.schema.Properties(ctx); err != nil {
		return nil, err
	}
	return res, nil
}
