package collection

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	input := `# nightly collection
perl mysql-test-run.pl --comment=main --vardir=var-main --force

perl mysql-test-run.pl --comment=rpl --vardir=var-rpl --suite=rpl --mysqld=--binlog-format=row
  # indented comment
perl mysql-test-run.pl --comment "quoted comment" --vardir var-quoted --do-test='rpl_.*'
`

	invs, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, invs, 3)

	require.Equal(t, 2, invs[0].Line)
	require.Equal(t, "main", invs[0].Comment)
	require.Equal(t, "var-main", invs[0].Vardir)
	require.Equal(t, []string{"perl", "mysql-test-run.pl", "--comment=main", "--vardir=var-main", "--force"}, invs[0].Args)

	require.Equal(t, "rpl", invs[1].Comment)
	require.Equal(t, "var-rpl", invs[1].Vardir)

	// Quoted values survive tokenization intact.
	require.Equal(t, "quoted comment", invs[2].Comment)
	require.Equal(t, "var-quoted", invs[2].Vardir)
	require.Contains(t, invs[2].Args, "--do-test=rpl_.*")
}

func TestParseEmpty(t *testing.T) {
	invs, err := Parse(strings.NewReader("\n# only comments\n\n"))
	require.NoError(t, err)
	require.Empty(t, invs)
}

func TestParseBadQuoting(t *testing.T) {
	_, err := Parse(strings.NewReader("mtr --comment='unterminated\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 1")
}

func TestOptionValue(t *testing.T) {
	tests := []struct {
		name string
		args []string
		opt  string
		want string
	}{
		{
			name: "equals form",
			args: []string{"mtr", "--comment=main", "--force"},
			opt:  "comment",
			want: "main",
		},
		{
			name: "space form",
			args: []string{"mtr", "--comment", "main"},
			opt:  "comment",
			want: "main",
		},
		{
			name: "absent",
			args: []string{"mtr", "--force"},
			opt:  "comment",
			want: "",
		},
		{
			name: "empty value",
			args: []string{"mtr", "--comment="},
			opt:  "comment",
			want: "",
		},
		{
			name: "trailing flag without value",
			args: []string{"mtr", "--comment"},
			opt:  "comment",
			want: "",
		},
		{
			name: "flag is never taken as value",
			args: []string{"mtr", "--comment", "--force"},
			opt:  "comment",
			want: "",
		},
		{
			name: "last occurrence wins",
			args: []string{"mtr", "--comment=first", "--comment=second"},
			opt:  "comment",
			want: "second",
		},
		{
			name: "last occurrence wins across forms",
			args: []string{"mtr", "--comment", "first", "--comment=second"},
			opt:  "comment",
			want: "second",
		},
		{
			name: "value-less repeat keeps earlier value",
			args: []string{"mtr", "--comment=kept", "--comment", "--force"},
			opt:  "comment",
			want: "kept",
		},
		{
			name: "prefix does not match longer option",
			args: []string{"mtr", "--comments=x"},
			opt:  "comment",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OptionValue(tt.args, tt.opt, "")
			if got != tt.want {
				t.Errorf("OptionValue() = %q, want %q", got, tt.want)
			}
		})
	}
}
