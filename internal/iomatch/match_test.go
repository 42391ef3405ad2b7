package iomatch_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/internal/ioblob"
	"github.com/gnames/gnvariants/internal/iocache"
	"github.com/gnames/gnvariants/internal/ioimport"
	"github.com/gnames/gnvariants/internal/iomatch"
	"github.com/gnames/gnvariants/internal/iostore"
	"github.com/gnames/gnvariants/internal/iotesting"
	"github.com/gnames/gnvariants/pkg/errcode"
	"github.com/gnames/gnvariants/pkg/query"
	"github.com/gnames/gnvariants/pkg/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// A4T, P1:N2Y
	snvSeq = "ATGTATAAATAAGGCTTGACCCATGGTTTC"
	// deletion of bases 13-15
	delSeq = "ATGAATAAATAATTGACCCATGGTTTC"
)

func setup(t *testing.T) *iomatch.Matcher {
	t.Helper()
	ctx := context.Background()
	env := iotesting.SetupSQLite(t)
	cache := iocache.New(ioblob.NewMemory(), env.Catalog, 2, nil)
	store := iostore.New(env.Operator, 100)
	imp := ioimport.New(env.Config, env.Props, cache, store, nil)

	recs := []sample.Record{
		{Name: "s1", Sequence: snvSeq,
			Properties: map[string]string{"COUNTRY": "DE", "DEPTH": "100"}},
		{Name: "s2", Sequence: iotesting.ToySeq,
			Properties: map[string]string{"COUNTRY": "FR"}},
		{Name: "s3", Sequence: delSeq,
			Properties: map[string]string{"COUNTRY": "DE", "LINEAGE": "B.1.1.7"}},
	}
	res, err := imp.ImportBatch(ctx, recs, nil)
	require.NoError(t, err)
	require.Equal(t, 3, res.Inserted)
	return iomatch.New(env.Operator, env.Catalog, env.Props, env.Lineages)
}

func TestMatchCount(t *testing.T) {
	ctx := context.Background()
	m := setup(t)

	tests := []struct {
		msg   string
		req   query.Request
		count int
	}{
		{"all", query.Request{}, 3},
		{"snv", query.Request{Profiles: []string{"A4T"}}, 1},
		{"aa", query.Request{Profiles: []string{"P1:N2Y"}}, 1},
		{"or", query.Request{Profiles: []string{"A4T", "del:13-15"}}, 2},
		{"and", query.Request{Profiles: []string{"A4T del:13-15"}}, 0},
		{"property", query.Request{Properties: map[string][]string{"COUNTRY": {"DE"}}}, 2},
		{
			"property and profile",
			query.Request{
				Profiles:   []string{"A4T"},
				Properties: map[string][]string{"COUNTRY": {"FR"}},
			},
			0,
		},
		{"lineage exact", query.Request{Properties: map[string][]string{"LINEAGE": {"B.1.1"}}}, 0},
		{"lineage", query.Request{Properties: map[string][]string{"LINEAGE": {"B.1.1*"}}}, 1},
	}

	for _, v := range tests {
		v.req.Mode = query.Count
		res, err := m.Match(ctx, v.req)
		require.NoError(t, err, v.msg)
		assert.Equal(t, v.count, res.Count, v.msg)
	}
}

func TestMatchRows(t *testing.T) {
	ctx := context.Background()
	m := setup(t)

	res, err := m.Match(ctx, query.Request{Profiles: []string{"A4T"}})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	row := res.Rows[0]
	assert.Equal(t, "s1", row.Name)
	assert.Equal(t, "A4T", row.NtProfile)
	assert.Equal(t, "P1:N2Y", row.AaProfile)
	assert.Equal(t, "DE", row.Properties["COUNTRY"])
	assert.Equal(t, "100", row.Properties["DEPTH"])
	assert.Equal(t, "30", row.Properties["LENGTH"])

	res, err = m.Match(ctx, query.Request{})
	require.NoError(t, err)
	require.Len(t, res.Rows, 3)
	assert.Equal(t, "s2", res.Rows[1].Name)
	assert.Empty(t, res.Rows[1].NtProfile)
}

func TestMatchVCF(t *testing.T) {
	ctx := context.Background()
	m := setup(t)

	res, err := m.Match(ctx, query.Request{Mode: query.VCF})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2", "s3"}, res.VCF.Samples)
	require.Len(t, res.VCF.Records, 2)

	snv := res.VCF.Records[0]
	assert.Equal(t, 4, snv.Pos)
	assert.Equal(t, "A", snv.Ref)
	assert.Equal(t, []string{"T"}, snv.Alts)
	assert.Equal(t, []int{1, 0, 0}, snv.Genotypes)

	del := res.VCF.Records[1]
	assert.Equal(t, 12, del.Pos)
	assert.Equal(t, "AGGC", del.Ref)
	assert.Equal(t, []string{"A"}, del.Alts)
	assert.Equal(t, []int{0, 0, 1}, del.Genotypes)

	var buf bytes.Buffer
	require.NoError(t, res.VCF.Write(&buf))
	assert.Contains(t, buf.String(), "TOY.1\t4\t.\tA\tT")
}

func TestMatchSQL(t *testing.T) {
	ctx := context.Background()
	m := setup(t)

	res, err := m.Match(ctx, query.Request{
		Mode: query.SQL,
		SQL:  "SELECT name, run_id IS NULL AS no_run, NULL AS empty FROM sample ORDER BY name",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "no_run", "empty"}, res.Columns)
	require.Len(t, res.Records, 3)
	assert.Equal(t, []string{"s1", "0", ""}, res.Records[0])
	assert.Equal(t, 3, res.Count)

	_, err = m.Match(ctx, query.Request{Mode: query.SQL, SQL: "DELETE FROM sample"})
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.QueryNotReadOnlyError, gnErr.Code)

	res, err = m.Match(ctx, query.Request{Mode: query.Count})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Count)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	m := setup(t)

	seq, err := m.Restore(ctx, "s1", false)
	require.NoError(t, err)
	assert.Equal(t, snvSeq, seq)

	seq, err = m.Restore(ctx, "s3", false)
	require.NoError(t, err)
	assert.Equal(t, delSeq, seq)

	seq, err = m.Restore(ctx, "s3", true)
	require.NoError(t, err)
	assert.Equal(t, "ATGAATAAATAA---TTGACCCATGGTTTC", seq)

	_, err = m.Restore(ctx, "nope", false)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.StoreSampleNotFoundError, gnErr.Code)
}

func TestNotConnected(t *testing.T) {
	m := iomatch.New(nil, nil, nil, nil)
	_, err := m.Match(context.Background(), query.Request{Mode: query.SQL, SQL: "SELECT 1"})
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
}
