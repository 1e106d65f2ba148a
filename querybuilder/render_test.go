package querybuilder

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSet struct {
	unrestricted bool
	ids          []uuid.UUID
}

func (s staticSet) IsUnrestricted() bool    { return s.unrestricted }
func (s staticSet) ProjectIDs() []uuid.UUID { return s.ids }

func TestRender(t *testing.T) {
	name := Col("p", "name")
	score := Col("v", "cvss_v3_base_score")

	cases := []struct {
		desc       string
		dialect    Dialect
		expr       Expr
		wantSQL    string
		wantParams map[string]any
	}{
		{
			desc:       "equality",
			dialect:    Postgres,
			expr:       Eq(name, "frontend"),
			wantSQL:    `"p"."name" = @p_1`,
			wantParams: map[string]any{"p_1": "frontend"},
		},
		{
			desc:       "inclusive range",
			dialect:    Postgres,
			expr:       Between(score, 4.0, 7.5),
			wantSQL:    `("v"."cvss_v3_base_score" >= @p_1 AND "v"."cvss_v3_base_score" <= @p_2)`,
			wantParams: map[string]any{"p_1": 4.0, "p_2": 7.5},
		},
		{
			desc:       "open range",
			dialect:    Postgres,
			expr:       Between(score, nil, 7.5),
			wantSQL:    `"v"."cvss_v3_base_score" <= @p_1`,
			wantParams: map[string]any{"p_1": 7.5},
		},
		{
			desc:       "set membership",
			dialect:    Postgres,
			expr:       In(Col("v", "severity"), []string{"HIGH", "LOW"}),
			wantSQL:    `"v"."severity" IN @p_1`,
			wantParams: map[string]any{"p_1": []string{"HIGH", "LOW"}},
		},
		{
			desc:       "empty set matches nothing",
			dialect:    Postgres,
			expr:       In(Col("v", "severity"), []string{}),
			wantSQL:    `1 = 0`,
			wantParams: map[string]any{},
		},
		{
			desc:       "case sensitive like escapes wildcards",
			dialect:    Postgres,
			expr:       Like(name, "50%_off"),
			wantSQL:    `"p"."name" LIKE @p_1 ESCAPE '!'`,
			wantParams: map[string]any{"p_1": "%50!%!_off%"},
		},
		{
			desc:       "fuzzy match lowercases both sides",
			dialect:    SQLite,
			expr:       Matches(name, "FrontEnd"),
			wantSQL:    `LOWER("p"."name") LIKE @p_1 ESCAPE '!'`,
			wantParams: map[string]any{"p_1": "%frontend%"},
		},
		{
			desc:       "or with null sentinel",
			dialect:    Postgres,
			expr:       OrNull(Eq(Col("a", "state"), "NOT_SET"), Col("a", "state")),
			wantSQL:    `("a"."state" = @p_1 OR "a"."state" IS NULL)`,
			wantParams: map[string]any{"p_1": "NOT_SET"},
		},
		{
			desc:       "mysql quoting",
			dialect:    MySQL,
			expr:       Not(Eq(name, "x")),
			wantSQL:    "NOT (`p`.`name` = @p_1)",
			wantParams: map[string]any{"p_1": "x"},
		},
		{
			desc:       "sql server quoting",
			dialect:    SQLServer,
			expr:       IsNull(name),
			wantSQL:    `[p].[name] IS NULL`,
			wantParams: map[string]any{},
		},
		{
			desc:       "empty and is true",
			dialect:    Postgres,
			expr:       And(),
			wantSQL:    `1 = 1`,
			wantParams: map[string]any{},
		},
		{
			desc:       "empty or is false",
			dialect:    Postgres,
			expr:       Or(),
			wantSQL:    `1 = 0`,
			wantParams: map[string]any{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			sql, params, err := Render(tc.dialect, tc.expr)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.wantSQL, sql); diff != "" {
				t.Errorf("sql mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.wantParams, params); diff != "" {
				t.Errorf("params mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderOperands(t *testing.T) {
	r := NewRenderer(Postgres)

	t.Run("concat treats null parts as empty", func(t *testing.T) {
		sql, err := r.Operand(Concat{Parts: []Operand{Col("p", "name"), Col("p", "version")}, Separator: " "})
		require.NoError(t, err)
		assert.Equal(t, `(COALESCE("p"."name", '') || ' ' || COALESCE("p"."version", ''))`, sql)
	})

	t.Run("mysql concat uses the function", func(t *testing.T) {
		sql, err := NewRenderer(MySQL).Operand(Concat{Parts: []Operand{Col("p", "name"), Col("p", "version")}, Separator: " "})
		require.NoError(t, err)
		assert.Equal(t, "CONCAT(COALESCE(`p`.`name`, ''), ' ', COALESCE(`p`.`version`, ''))", sql)
	})

	t.Run("aggregate", func(t *testing.T) {
		sql, err := r.Operand(CountDistinct(Col("p", "id")))
		require.NoError(t, err)
		assert.Equal(t, `COUNT(DISTINCT "p"."id")`, sql)
	})

	t.Run("case with constants", func(t *testing.T) {
		sql, err := r.Operand(Case{
			Subject: Col("v", "severity"),
			Whens:   []When{{Equals: Const{"LOW"}, Then: Const{3}}},
			Else:    Coalesce{Args: []Operand{Col("v", "cvss_v3_base_score"), Const{0}}},
		})
		require.NoError(t, err)
		assert.Equal(t, `CASE "v"."severity" WHEN 'LOW' THEN 3 ELSE COALESCE("v"."cvss_v3_base_score", 0) END`, sql)
	})

	t.Run("if not null picks a whole row", func(t *testing.T) {
		sql, err := r.Operand(IfNotNull{Key: Col("a", "id"), Then: Col("a", "state"), Else: Col("ga", "state")})
		require.NoError(t, err)
		assert.Equal(t, `CASE WHEN "a"."id" IS NOT NULL THEN "a"."state" ELSE "ga"."state" END`, sql)
	})

	t.Run("if not null rejects unsafe operands", func(t *testing.T) {
		_, err := r.Operand(IfNotNull{Key: Col("a", "id"), Then: Col("a", `state"--`), Else: Col("ga", "state")})
		assert.ErrorIs(t, err, ErrInvalidIdentifier)
	})

	t.Run("constants escape quotes", func(t *testing.T) {
		sql, err := r.Operand(Const{"it's"})
		require.NoError(t, err)
		assert.Equal(t, `'it''s'`, sql)
	})

	t.Run("sql server renders booleans as bits", func(t *testing.T) {
		sql, err := NewRenderer(SQLServer).Operand(Coalesce{Args: []Operand{Col("a", "suppressed"), Const{false}}})
		require.NoError(t, err)
		assert.Equal(t, `COALESCE([a].[suppressed], 0)`, sql)
	})
}

func TestRenderRejectsUnsafeInput(t *testing.T) {
	t.Run("identifiers are validated", func(t *testing.T) {
		_, _, err := Render(Postgres, Eq(Col("p", `name"; DROP TABLE projects; --`), "x"))
		assert.ErrorIs(t, err, ErrInvalidIdentifier)
	})

	t.Run("nil comparison values are rejected", func(t *testing.T) {
		_, _, err := Render(Postgres, Eq(Col("p", "name"), nil))
		assert.ErrorIs(t, err, ErrNilValue)
	})

	t.Run("user values never appear in the sql", func(t *testing.T) {
		evil := "x' OR '1'='1"
		sql, params, err := Render(Postgres, Eq(Col("p", "name"), evil))
		require.NoError(t, err)
		assert.NotContains(t, sql, evil)
		assert.Equal(t, evil, params["p_1"])
	})
}

func TestRendererBindNamesAreUnique(t *testing.T) {
	r := NewRenderer(Postgres)
	a := r.Bind("severity", "HIGH")
	b := r.Bind("severity", "LOW")
	c := r.Bind("sever-ity", "MEDIUM")

	assert.Equal(t, "@severity_1", a)
	assert.Equal(t, "@severity_2", b)
	assert.Equal(t, "@sever_ity_1", c)
	assert.Len(t, r.Params(), 3)
}

func TestMembership(t *testing.T) {
	id := uuid.New()

	t.Run("unrestricted matches everything", func(t *testing.T) {
		assert.Equal(t, True(), Membership(Col("p", "id"), staticSet{unrestricted: true}))
	})

	t.Run("empty scope matches nothing", func(t *testing.T) {
		sql, _, err := Render(Postgres, And(Eq(Col("p", "name"), "a"), Membership(Col("p", "id"), staticSet{})))
		require.NoError(t, err)
		assert.Equal(t, `("p"."name" = @p_1 AND 1 = 0)`, sql)
	})

	t.Run("restricted scope adds an IN predicate", func(t *testing.T) {
		sql, params, err := Render(Postgres, And(Eq(Col("p", "name"), "a"), Membership(Col("p", "id"), staticSet{ids: []uuid.UUID{id}})))
		require.NoError(t, err)
		assert.Equal(t, `("p"."name" = @p_1 AND "p"."id" IN @p_2)`, sql)
		assert.Equal(t, []uuid.UUID{id}, params["p_2"])
	})

	t.Run("large scopes are inlined on sql server", func(t *testing.T) {
		ids := make([]uuid.UUID, SQLServer.MaxBoundIDs()+1)
		for i := range ids {
			ids[i] = uuid.New()
		}

		sql, params, err := Render(SQLServer, Membership(Col("p", "id"), staticSet{ids: ids}))
		require.NoError(t, err)
		assert.Empty(t, params)
		assert.True(t, strings.HasPrefix(sql, `[p].[id] IN ('`+ids[0].String()+`', `))
		assert.True(t, strings.HasSuffix(sql, `'`+ids[len(ids)-1].String()+`')`))
		assert.Equal(t, len(ids)-1, strings.Count(sql, ", "))

		sql, params, err = Render(SQLServer, Membership(Col("p", "id"), staticSet{ids: ids[:SQLServer.MaxBoundIDs()]}))
		require.NoError(t, err)
		assert.Equal(t, `[p].[id] IN @p_1`, sql)
		assert.Len(t, params["p_1"], SQLServer.MaxBoundIDs())

		sql, _, err = Render(Postgres, Membership(Col("p", "id"), staticSet{ids: ids}))
		require.NoError(t, err)
		assert.Equal(t, `"p"."id" IN @p_1`, sql)
	})
}
