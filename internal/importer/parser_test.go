package importer_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/record"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestParser_Tally(t *testing.T) {
	type args struct {
		csv string
	}

	type testCase struct {
		name    string
		args    args
		want    []record.CreateParams
		wantErr string
	}

	tests := []testCase{
		{
			name: "SemicolonWithOptionalColumns",
			args: args{csv: "Date;Amount;Category;Payment;Comment\n" +
				"2024-01-05;12,50;Food;Card;lunch\n" +
				"06 Jan, 2024;3.20;Travel;;\n"},
			want: []record.CreateParams{
				{Amount: 1250, Label: "Food", PaymentMethod: "Card", Comment: "lunch", Date: date(2024, 1, 5)},
				{Amount: 320, Label: "Travel", Date: date(2024, 1, 6)},
			},
		},
		{
			name: "CommaSeparatedIncome",
			args: args{csv: "date,source,amount\n" +
				"2024-02-01,Salary,2500.00\n" +
				"\"Feb 3, 2024\",Freelancing,\"1,234.56\"\n"},
			want: []record.CreateParams{
				{Amount: 250000, Label: "Salary", Date: date(2024, 2, 1)},
				{Amount: 123456, Label: "Freelancing", Date: date(2024, 2, 3)},
			},
		},
		{
			name: "SkipsFooterRows",
			args: args{csv: "date;amount;label\n2024-01-05;1;Food\nTotal;1;\n"},
			want: []record.CreateParams{
				{Amount: 100, Label: "Food", Date: date(2024, 1, 5)},
			},
		},
		{
			name:    "BadAmountReportsRow",
			args:    args{csv: "date;amount;category\n2024-01-05;1;Food\n2024-01-06;abc;Food\n"},
			wantErr: "row 3: invalid amount",
		},
		{
			name:    "NegativeAmount",
			args:    args{csv: "date;amount;category\n2024-01-05;-4;Food\n"},
			wantErr: "row 2: amount must be positive",
		},
		{
			name:    "MissingLabel",
			args:    args{csv: "date;amount;category\n2024-01-05;4;\n"},
			wantErr: "row 2: missing category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := importer.NewParser().Parse(strings.NewReader(tt.args.csv))

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParser_CGDConta(t *testing.T) {
	csv := `Consultar saldos e movimentos à ordem - 31-01-2026;"=""0000"""
Nome cliente;JOHN DOE
NIF;"=""123"""

Dados da conta
Conta;0000 - EUR - Conta Extracto
Saldo contabilístico;1.000,00 EUR

Data mov.;Data-valor;Descrição;Montante;Saldo contabilístico após movimento
30-01-2026;30-01-2026;INSTITUTO GESTAO FINA;-588,74;48.825,46
09-01-2026;09-01-2026;TFI Wise;8.608,52;52.532,78
`

	got, err := importer.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, date(2026, 1, 30), got[0].Date)
	assert.Equal(t, "INSTITUTO GESTAO FINA", got[0].Label)
	assert.Equal(t, int64(58874), got[0].Amount)
	assert.Equal(t, record.KindExpense, got[0].Kind)

	assert.Equal(t, "TFI Wise", got[1].Label)
	assert.Equal(t, int64(860852), got[1].Amount)
	assert.Equal(t, record.KindIncome, got[1].Kind)
}

func TestParser_CGDExtrato(t *testing.T) {
	csv := `Consultar extrato - 15-02-2026 : 0000
Intervalo de ;01-02-2026 a 14-02-2026

Data mov. ;Data valor ;Origem ;Descrição ;Movimento ;Estorno ;Saldo contabilístico após movimento ;
13-02-2026;13-02-2026;"=""0003""";PAGAMENTO TSU ;-608,13;  ;41.393,66;
04-02-2026;04-02-2026;SIBS ;TFI Wise ;4.324,06;  ;51.302,85;
`

	got, err := importer.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "PAGAMENTO TSU", got[0].Label)
	assert.Equal(t, int64(60813), got[0].Amount)
	assert.Equal(t, record.KindExpense, got[0].Kind)

	assert.Equal(t, int64(432406), got[1].Amount)
	assert.Equal(t, record.KindIncome, got[1].Kind)
}

func TestParser_CGDCartao(t *testing.T) {
	csv := `Data ;Data valor ;Descrição ;Débito ;Crédito ;
16-12-2025 ;14-12-2025 ;UBER   *TRIP ;47,91 ; ;
17-12-2025 ;17-12-2025 ;REFUND AMAZON ;  ;25,00 ;
 ; ; ; ;Página 1/2 ;
`

	got, err := importer.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(4791), got[0].Amount)
	assert.Equal(t, record.KindExpense, got[0].Kind)
	assert.Equal(t, int64(2500), got[1].Amount)
	assert.Equal(t, record.KindIncome, got[1].Kind)
}

func TestParser_Latin1Encoding(t *testing.T) {
	utf8CSV := "Data mov.;Descrição;Montante\n30-01-2026;CAFÉ CENTRAL;-10,00\n"

	latin1Bytes, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	got, err := importer.NewParser().Parse(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "CAFÉ CENTRAL", got[0].Label)
}

func TestParser_DifferentColumnOrder(t *testing.T) {
	csv := `Random;MetaData
Comment;Category;Amount;Date
weekly shop;Grocery;45,10;2024-03-02
`

	got, err := importer.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "Grocery", got[0].Label)
	assert.Equal(t, "weekly shop", got[0].Comment)
	assert.Equal(t, int64(4510), got[0].Amount)
}

func TestParser_UnknownFormat(t *testing.T) {
	_, err := importer.NewParser().Parse(strings.NewReader("foo;bar\n1;2\n"))
	assert.ErrorIs(t, err, importer.ErrUnknownFormat)

	_, err = importer.NewParser().Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, importer.ErrUnknownFormat)
}

func TestParser_HeaderOnly(t *testing.T) {
	got, err := importer.NewParser().Parse(strings.NewReader("date;amount;category"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestService_Import_FiltersByKind(t *testing.T) {
	csv := `Data mov.;Descrição;Montante
30-01-2026;GROCERIES;-10,00
31-01-2026;SALARY;1.500,00
`

	svc := importer.NewService()

	expenses, err := svc.Import(record.KindExpense, strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "GROCERIES", expenses[0].Label)

	income, err := svc.Import(record.KindIncome, strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, income, 1)
	assert.Equal(t, int64(150000), income[0].Amount)
}

func TestService_Import_AssignsRequestedKind(t *testing.T) {
	got, err := importer.NewService().Import(record.KindIncome, strings.NewReader("date;amount;source\n2024-01-05;10;Salary\n"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, record.KindIncome, got[0].Kind)
}
