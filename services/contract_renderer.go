package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"law-office-api/models"
	"law-office-api/utils"

	"github.com/shopspring/decimal"
)

// ErrTemplateNotFound is returned when the selected base minute does not exist.
var ErrTemplateNotFound = errors.New("selected base minute not found")

// Placeholder tokens written in place of missing data.
const (
	PlaceholderTitle          = "[TÍTULO DO CONTRATO]"
	PlaceholderFirmName       = "[NOME DO ESCRITÓRIO]"
	PlaceholderFirmDocument   = "[CNPJ DO ESCRITÓRIO]"
	PlaceholderFirmAddress    = "[ENDEREÇO DO ESCRITÓRIO]"
	PlaceholderClientName     = "[NOME DO CLIENTE]"
	PlaceholderClientDocument = "[DOCUMENTO]"
	PlaceholderClientAddress  = "[ENDEREÇO DO CLIENTE]"
	PlaceholderClientEmail    = "[EMAIL DO CLIENTE]"
	PlaceholderClientPhone    = "[TELEFONE DO CLIENTE]"
	PlaceholderDescription    = "[DESCRIÇÃO DOS SERVIÇOS]"
	PlaceholderValue          = "[VALOR DOS HONORÁRIOS]"
	PlaceholderStartDate      = "[DATA DE INÍCIO]"
	PlaceholderEndDate        = "[DATA DE TÉRMINO]"
	PlaceholderJurisdiction   = "[COMARCA]"
	PlaceholderContractType   = "[TIPO DE CONTRATO]"
	PlaceholderClauseTitle    = "[TÍTULO DA CLÁUSULA]"
	PlaceholderClauseBody     = "[TEXTO DA CLÁUSULA]"
)

const (
	documentLabelCompany    = "CNPJ"
	documentLabelIndividual = "CPF"
	documentLabelUnknown    = "CPF/CNPJ"

	specialClausesHeading = "CLÁUSULAS ESPECIAIS"
	witnessesHeading      = "TESTEMUNHAS"

	// Special clauses are numbered after the fixed general clauses.
	generalClauseCount = 5

	banner        = "================================================================"
	rule          = "----------------------------------------------------------------"
	signatureLine = "____________________________________"
)

// ContractFields is the contract metadata collected from the user.
type ContractFields struct {
	Title           string
	ClientID        *int
	Value           *decimal.Decimal
	StartDate       *time.Time
	EndDate         *time.Time
	Description     string
	ContractType    string
	Jurisdiction    string
	WitnessRequired bool
}

// RenderedContract is the output of ContractAssembler.Assemble.
type RenderedContract struct {
	Template            models.ContractTemplate
	Content             string
	TemplateBodyApplied bool
	GeneratedAt         time.Time
}

type generalClause struct {
	title string
	body  string
}

type templateGetter interface {
	GetTemplate(ctx context.Context, id int) (models.ContractTemplate, error)
}

// ContractAssembler resolves the base template and renders the contract.
type ContractAssembler struct {
	templates templateGetter
}

func NewContractAssembler(templates templateGetter) *ContractAssembler {
	return &ContractAssembler{templates: templates}
}

// Assemble fails only when the template is missing; every other gap becomes a placeholder.
// The template body is not interpolated: the fixed general clauses are always used.
func (a *ContractAssembler) Assemble(ctx context.Context, templateID int, fields ContractFields, client *models.Client, clauses []models.ClauseTemplate, now time.Time) (*RenderedContract, error) {
	tpl, err := a.templates.GetTemplate(ctx, templateID)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load template %d: %w", templateID, err)
	}

	return &RenderedContract{
		Template:            tpl,
		Content:             RenderContract(fields, client, clauses, now),
		TemplateBodyApplied: false,
		GeneratedAt:         now,
	}, nil
}

// RenderContract builds the contract text. It is a pure function of its arguments.
func RenderContract(fields ContractFields, client *models.Client, clauses []models.ClauseTemplate, now time.Time) string {
	var b strings.Builder

	writeHeader(&b, fields)
	writeParties(&b, client)
	writeObject(&b, fields)
	writeGeneralClauses(&b, fields)
	writeSpecialClauses(&b, clauses)
	writeClosing(&b, fields, client, now)

	return b.String()
}

func writeHeader(b *strings.Builder, fields ContractFields) {
	b.WriteString(banner + "\n")
	b.WriteString("CONTRATO DE PRESTAÇÃO DE SERVIÇOS ADVOCATÍCIOS\n")
	b.WriteString(utils.ValueOr(fields.Title, PlaceholderTitle) + "\n")
	b.WriteString(banner + "\n\n")
}

func writeParties(b *strings.Builder, client *models.Client) {
	party := clientParty(client)

	b.WriteString("QUALIFICAÇÃO DAS PARTES\n")
	b.WriteString(rule + "\n\n")

	fmt.Fprintf(b, "CONTRATADO: %s, sociedade de advogados inscrita no CNPJ sob o nº %s, com sede em %s, doravante denominado CONTRATADO.\n\n",
		PlaceholderFirmName, PlaceholderFirmDocument, PlaceholderFirmAddress)

	fmt.Fprintf(b, "CONTRATANTE: %s, inscrito(a) no %s sob o nº %s, com endereço em %s, e-mail %s, telefone %s, doravante denominado(a) CONTRATANTE.\n\n",
		party.name, party.documentLabel, party.document, party.address, party.email, party.phone)
}

func writeObject(b *strings.Builder, fields ContractFields) {
	b.WriteString("DO OBJETO\n")
	b.WriteString(rule + "\n\n")

	fmt.Fprintf(b, "Objeto: %s\n", utils.ValueOr(fields.Description, PlaceholderDescription))
	fmt.Fprintf(b, "Valor dos honorários: %s\n", formatValue(fields.Value))
	fmt.Fprintf(b, "Vigência: de %s a %s\n",
		utils.ValueOr(utils.FormatLongDatePtr(fields.StartDate), PlaceholderStartDate),
		utils.ValueOr(utils.FormatLongDatePtr(fields.EndDate), PlaceholderEndDate))
	fmt.Fprintf(b, "Comarca: %s\n", utils.ValueOr(fields.Jurisdiction, PlaceholderJurisdiction))
	fmt.Fprintf(b, "Tipo de contrato: %s\n\n", utils.ValueOr(fields.ContractType, PlaceholderContractType))
}

func writeGeneralClauses(b *strings.Builder, fields ContractFields) {
	b.WriteString("CLÁUSULAS GERAIS\n")
	b.WriteString(rule + "\n\n")

	for i, clause := range generalClauses(formatValue(fields.Value)) {
		writeClause(b, i+1, clause.title, clause.body)
	}
}

func writeSpecialClauses(b *strings.Builder, clauses []models.ClauseTemplate) {
	if len(clauses) == 0 {
		return
	}

	b.WriteString(specialClausesHeading + "\n")
	b.WriteString(rule + "\n\n")

	for index, clause := range clauses {
		writeClause(b, index+generalClauseCount+1, clause.Title, utils.ValueOr(clause.Body, PlaceholderClauseBody))
	}
}

func writeClosing(b *strings.Builder, fields ContractFields, client *models.Client, now time.Time) {
	party := clientParty(client)
	jurisdiction := utils.ValueOr(fields.Jurisdiction, PlaceholderJurisdiction)

	b.WriteString("DO FORO\n")
	b.WriteString(rule + "\n\n")
	fmt.Fprintf(b, "Fica eleito o foro da Comarca de %s para dirimir quaisquer dúvidas oriundas do presente contrato, com renúncia expressa a qualquer outro, por mais privilegiado que seja.\n\n", jurisdiction)
	b.WriteString("E, por estarem assim justos e contratados, as partes assinam o presente instrumento em duas vias de igual teor e forma.\n\n")
	fmt.Fprintf(b, "%s, %s.\n\n\n", jurisdiction, utils.FormatLongDate(now))

	b.WriteString(signatureLine + "\n")
	b.WriteString(PlaceholderFirmName + "\n")
	b.WriteString("CONTRATADO\n\n\n")

	b.WriteString(signatureLine + "\n")
	b.WriteString(party.name + "\n")
	fmt.Fprintf(b, "%s: %s\n", party.documentLabel, party.document)
	b.WriteString("CONTRATANTE\n")

	if fields.WitnessRequired {
		b.WriteString("\n\n" + witnessesHeading + ":\n\n")
		for i := 1; i <= 2; i++ {
			fmt.Fprintf(b, "%d. %s\n", i, signatureLine)
			b.WriteString("Nome:\n")
			b.WriteString("CPF:\n")
			if i < 2 {
				b.WriteString("\n")
			}
		}
	}
}

func writeClause(b *strings.Builder, number int, title, body string) {
	heading := PlaceholderClauseTitle
	if strings.TrimSpace(title) != "" {
		heading = utils.UpperPT(strings.TrimSpace(title))
	}
	fmt.Fprintf(b, "%dª. CLÁUSULA - %s\n%s\n\n", number, heading, body)
}

type partyView struct {
	name          string
	documentLabel string
	document      string
	address       string
	email         string
	phone         string
}

func clientParty(client *models.Client) partyView {
	if client == nil {
		return partyView{
			name:          PlaceholderClientName,
			documentLabel: documentLabelUnknown,
			document:      PlaceholderClientDocument,
			address:       PlaceholderClientAddress,
			email:         PlaceholderClientEmail,
			phone:         PlaceholderClientPhone,
		}
	}

	label := documentLabelIndividual
	if client.IsCompany() {
		label = documentLabelCompany
	}

	return partyView{
		name:          utils.ValueOr(client.Name, PlaceholderClientName),
		documentLabel: label,
		document:      utils.ValueOr(client.DocumentNumber, PlaceholderClientDocument),
		address:       utils.ValueOr(client.Address, PlaceholderClientAddress),
		email:         utils.ValueOr(client.Email, PlaceholderClientEmail),
		phone:         utils.ValueOr(client.Phone, PlaceholderClientPhone),
	}
}

func formatValue(value *decimal.Decimal) string {
	return utils.ValueOr(utils.FormatBRLPtr(value), PlaceholderValue)
}

func generalClauses(value string) []generalClause {
	return []generalClause{
		{
			title: "Dos honorários e forma de pagamento",
			body: "Pelos serviços prestados, o CONTRATANTE pagará ao CONTRATADO o valor de " + value +
				", na forma e nos prazos acordados entre as partes. O atraso no pagamento sujeitará o CONTRATANTE à multa de 2% (dois por cento) sobre o valor devido, acrescida de juros de mora de 1% (um por cento) ao mês e correção monetária.",
		},
		{
			title: "Das obrigações do contratado",
			body: "O CONTRATADO obriga-se a prestar os serviços com zelo, diligência e observância ao Código de Ética e Disciplina da OAB, mantendo o CONTRATANTE informado sobre o andamento dos trabalhos sempre que solicitado.",
		},
		{
			title: "Das obrigações do contratante",
			body: "O CONTRATANTE obriga-se a fornecer, em tempo hábil, todos os documentos e informações necessários à execução dos serviços, responsabilizando-se por sua veracidade, bem como a arcar com custas, despesas processuais e demais encargos não incluídos nos honorários.",
		},
		{
			title: "Da confidencialidade",
			body: "As partes comprometem-se a manter sigilo sobre todas as informações trocadas em razão deste contrato, obrigação que subsistirá após o seu término, ressalvadas as hipóteses de determinação legal ou judicial.",
		},
		{
			title: "Da rescisão",
			body: "O presente contrato poderá ser rescindido por qualquer das partes mediante notificação por escrito com antecedência mínima de 30 (trinta) dias, sendo devidos os honorários proporcionais aos serviços efetivamente prestados até a data da rescisão.",
		},
	}
}
