// =============================================================================
// Kannada P&L Generator - Tally Request Envelopes
// =============================================================================
//
// This module builds the XML request envelopes sent to Tally's HTTP XML
// server. Two request shapes are used:
//
//   1. Profit and Loss export (built-in report, date-ranged):
//
//   <ENVELOPE>
//     <HEADER>
//       <TALLYREQUEST>Export Data</TALLYREQUEST>
//     </HEADER>
//     <BODY>
//       <EXPORTDATA>
//         <REQUESTDESC>
//           <REPORTNAME>Profit and Loss</REPORTNAME>
//           <STATICVARIABLES>
//             <SVEXPORTFORMAT>$$SysName:XML</SVEXPORTFORMAT>
//             <EXPLODEFLAG>Yes</EXPLODEFLAG>
//             <SVFROMDATE>20240401</SVFROMDATE>
//             <SVTODATE>20250331</SVTODATE>
//           </STATICVARIABLES>
//         </REQUESTDESC>
//       </EXPORTDATA>
//     </BODY>
//   </ENVELOPE>
//
//   2. Ledger list (inline TDL report emitting one <NAME> per ledger).
//
// =============================================================================

package tally

import (
	"encoding/xml"
	"fmt"

	"github.com/ginjaninja78/tally-kannada-pnl/internal/period"
)

// ExportFormatXML asks Tally to answer in XML.
const ExportFormatXML = "$$SysName:XML"

// ProfitAndLossReport is Tally's built-in report name.
const ProfitAndLossReport = "Profit and Loss"

// LedgerListReport is the name of the inline TDL report used for ledger sync.
const LedgerListReport = "SimpleLedgerList"

// =============================================================================
// ENVELOPE STRUCTURE
// =============================================================================

// Envelope is the root of every Tally request.
type Envelope struct {
	XMLName xml.Name `xml:"ENVELOPE"`
	Header  Header   `xml:"HEADER"`
	Body    Body     `xml:"BODY"`
}

// Header identifies the request kind.
type Header struct {
	Version      string `xml:"VERSION,omitempty"`
	TallyRequest string `xml:"TALLYREQUEST"`
	Type         string `xml:"TYPE,omitempty"`
	ID           string `xml:"ID,omitempty"`
}

// Body carries either an EXPORTDATA request or a DESC with inline TDL.
type Body struct {
	ExportData *ExportData `xml:"EXPORTDATA,omitempty"`
	Desc       *Desc       `xml:"DESC,omitempty"`
}

// ExportData requests a named report.
type ExportData struct {
	RequestDesc RequestDesc `xml:"REQUESTDESC"`
}

// RequestDesc names the report and its static variables.
type RequestDesc struct {
	ReportName      string          `xml:"REPORTNAME"`
	StaticVariables StaticVariables `xml:"STATICVARIABLES"`
}

// StaticVariables are report parameters. Dates are YYYYMMDD.
type StaticVariables struct {
	ExportFormat string `xml:"SVEXPORTFORMAT"`
	ExplodeFlag  string `xml:"EXPLODEFLAG,omitempty"`
	FromDate     string `xml:"SVFROMDATE,omitempty"`
	ToDate       string `xml:"SVTODATE,omitempty"`
}

// Desc describes a data request with an inline TDL definition.
type Desc struct {
	StaticVariables StaticVariables `xml:"STATICVARIABLES"`
	TDL             TDL             `xml:"TDL"`
}

// TDL wraps the inline report definition.
type TDL struct {
	Message TDLMessage `xml:"TDLMESSAGE"`
}

// TDLMessage is the report/form/part/line/field/collection chain.
type TDLMessage struct {
	Report     TDLReport     `xml:"REPORT"`
	Form       TDLForm       `xml:"FORM"`
	Part       TDLPart       `xml:"PART"`
	Line       TDLLine       `xml:"LINE"`
	Field      TDLField      `xml:"FIELD"`
	Collection TDLCollection `xml:"COLLECTION"`
}

// TDLReport names the form that renders the ledger list.
type TDLReport struct {
	Name  string `xml:"NAME,attr"`
	Forms string `xml:"FORMS"`
}

// TDLForm sets the root XML tag and the part it starts from.
type TDLForm struct {
	Name     string `xml:"NAME,attr"`
	TopParts string `xml:"TOPPARTS"`
	XMLTag   string `xml:"XMLTAG"`
}

// TDLPart repeats one line over every object of the collection.
type TDLPart struct {
	Name     string `xml:"NAME,attr"`
	Lines    string `xml:"LINES"`
	Repeat   string `xml:"REPEAT"`
	Scrolled string `xml:"SCROLLED"`
}

// TDLLine groups the fields emitted for a single ledger.
type TDLLine struct {
	Name   string `xml:"NAME,attr"`
	Fields string `xml:"FIELDS"`
	XMLTag string `xml:"XMLTAG"`
}

// TDLField emits one value, here the ledger name, under its own tag.
type TDLField struct {
	Name   string `xml:"NAME,attr"`
	Set    string `xml:"SET"`
	XMLTag string `xml:"XMLTAG"`
}

// TDLCollection selects the Tally objects to iterate, here Ledger.
type TDLCollection struct {
	Name string `xml:"NAME,attr"`
	Type string `xml:"TYPE"`
}

// =============================================================================
// ENVELOPE BUILDERS
// =============================================================================

// ProfitAndLossEnvelope builds the date-ranged P&L export request.
func ProfitAndLossEnvelope(r period.Range) Envelope {
	return Envelope{
		Header: Header{TallyRequest: "Export Data"},
		Body: Body{
			ExportData: &ExportData{
				RequestDesc: RequestDesc{
					ReportName: ProfitAndLossReport,
					StaticVariables: StaticVariables{
						ExportFormat: ExportFormatXML,
						ExplodeFlag:  "Yes",
						FromDate:     r.TallyFrom(),
						ToDate:       r.TallyTo(),
					},
				},
			},
		},
	}
}

// LedgerListEnvelope builds the request listing every ledger name.
// The response has the shape <LEDGERLIST><LEDGER><NAME>..</NAME></LEDGER>..</LEDGERLIST>.
func LedgerListEnvelope() Envelope {
	return Envelope{
		Header: Header{
			Version:      "1",
			TallyRequest: "EXPORT",
			Type:         "DATA",
			ID:           LedgerListReport,
		},
		Body: Body{
			Desc: &Desc{
				StaticVariables: StaticVariables{ExportFormat: ExportFormatXML},
				TDL: TDL{Message: TDLMessage{
					Report:     TDLReport{Name: LedgerListReport, Forms: "SimpleLedgerForm"},
					Form:       TDLForm{Name: "SimpleLedgerForm", TopParts: "SimpleLedgerPart", XMLTag: `"LEDGERLIST"`},
					Part:       TDLPart{Name: "SimpleLedgerPart", Lines: "SimpleLedgerLine", Repeat: "SimpleLedgerLine : SimpleLedgerCollection", Scrolled: "Vertical"},
					Line:       TDLLine{Name: "SimpleLedgerLine", Fields: "LedgerNameField", XMLTag: `"LEDGER"`},
					Field:      TDLField{Name: "LedgerNameField", Set: "$Name", XMLTag: `"NAME"`},
					Collection: TDLCollection{Name: "SimpleLedgerCollection", Type: "Ledger"},
				}},
			},
		},
	}
}

// Marshal renders an envelope with two-space indentation.
func (e Envelope) Marshal() ([]byte, error) {
	out, err := xml.MarshalIndent(e, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return out, nil
}
