package dispute

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"insurex/internal/models"
	"insurex/internal/utils"
)

const emailTemplate = `Subject: Claim Dispute Request - {{.Reason}} - Policy {{.PolicyNumber}}

Dear [Insurance Company Name] Claims Team,

I am writing to formally dispute the coverage decision on my recent health insurance claim.

CLAIM DETAILS:
Policy Number: {{.PolicyNumber}}
Claim Number: {{.ClaimNumber}}
Patient Name: {{.PatientName}}
Hospital: {{.HospitalName}}
Admission Date: {{.AdmissionDate}}
Discharge Date: {{.DischargeDate}}

DISPUTED ITEM:
Item: {{.ItemName}}
Billed Amount: {{.BilledAmount}}
Covered Amount: {{.CoveredAmount}}
Disputed Amount: {{.DisputedAmount}}

DISPUTE REASON:
{{.DisputeReason}}

{{.Details}}

REQUESTED ACTION:
I respectfully request a review of this decision based on the following points:

{{.NumberedActionPoints}}

SUPPORTING DOCUMENTS:
I am attaching/will provide the following documents:
{{.NumberedSupportingDocs}}

I request that you review this claim within 15 days as per IRDAI guidelines and provide a detailed explanation for your decision. If the claim is still denied, please provide information on the escalation process.

Thank you for your prompt attention to this matter.

Sincerely,
{{.PatientName}}
Contact: [Your Phone Number]
Email: [Your Email]

---
DISPUTE GUIDANCE: This is a template. Success rate for this type of dispute: {{.SuccessRate}}%
IRDAI Regulation: Insurers must respond to grievances within 15 days and provide clear reasons for claim rejections.`

const callTemplate = `CALL SCRIPT FOR INSURANCE COMPANY

[When calling, have these ready: Policy number, Claim number, Bill copy, Doctor's notes]

---

OPENING:

"Hello, I'm calling regarding my health insurance claim that was recently processed. My policy number is {{.PolicyNumber}} and claim number is {{.ClaimNumber}}."

"I received the settlement and noticed that {{.DisputedAmount}} for {{.ItemName}} was not covered. I would like to understand the reason and discuss this decision."

---

KEY POINTS TO RAISE:

1. {{.ActionPoint1}}

   SAY: "{{.ActionPoint1}}. Can you explain how this was calculated?"

2. {{.ActionPoint2}}

   SAY: "{{.ActionPoint2}}. Could you point me to the specific policy clause?"

3. {{.ActionPoint3}}

   SAY: "{{.ActionPoint3}}. I have supporting documents to prove this."

---

IF THEY SAY "POLICY DOESN'T COVER THIS":

Response: "I have reviewed my policy document and it doesn't explicitly exclude this. Can you point me to the exact clause number? I would also like to know if this can be reviewed by your senior claims team."

---

IF THEY SAY "THIS IS STANDARD PRACTICE":

Response: "I understand, but the IRDAI guidelines state that insurers must provide clear, written reasons for claim deductions. Can you email me the detailed explanation and policy reference?"

---

IMPORTANT PHRASES TO USE:

- "As per IRDAI regulations..."
- "I would like to escalate this to your grievance officer..."
- "Please provide this in writing..."
- "What is the formal dispute process?"
- "Can I speak to a senior claims reviewer?"

---

WHAT TO ASK FOR:

1. Detailed written explanation of rejection
2. Specific policy clause number
3. Grievance officer contact details
4. Timeline for dispute review (15 days as per IRDAI)
5. Email confirmation of conversation

---

STAY CALM & POLITE:
Remember: Claims representatives want to help. Being polite and well-informed increases your chances of success.

---
DISPUTE GUIDANCE: Success rate for this type of dispute: {{.SuccessRate}}%
Note: Keep a record of all calls (date, time, representative name, call reference number).`

var (
	emailTmpl = template.Must(template.New("dispute_email").Parse(emailTemplate))
	callTmpl  = template.Must(template.New("dispute_call").Parse(callTemplate))
)

// scriptData is the flattened view rendered into both templates.
type scriptData struct {
	Reason                 string
	Details                string
	DisputeReason          string
	SuccessRate            int
	PolicyNumber           string
	ClaimNumber            string
	PatientName            string
	HospitalName           string
	AdmissionDate          string
	DischargeDate          string
	ItemName               string
	BilledAmount           string
	CoveredAmount          string
	DisputedAmount         string
	NumberedActionPoints   string
	NumberedSupportingDocs string
	ActionPoint1           string
	ActionPoint2           string
	ActionPoint3           string
}

// GenerateScript renders a dispute into an email template, a phone call
// script and a one-line summary. Missing patient fields fall back to
// bracketed prompts the user fills in themselves.
func GenerateScript(dispute models.DisputeRecord, itemDetails models.BreakdownEntry, patientInfo models.PatientInfo) models.DisputeScript {
	uncoveredAmount := itemDetails.OriginalCost - itemDetails.CoveredCost

	data := scriptData{
		Reason:                 dispute.Reason,
		Details:                dispute.Details,
		DisputeReason:          dispute.DisputeReason,
		SuccessRate:            dispute.SuccessRate,
		PolicyNumber:           orPlaceholder(patientInfo.PolicyNumber, "[Your Policy Number]"),
		ClaimNumber:            orPlaceholder(patientInfo.ClaimNumber, "[Claim Number]"),
		PatientName:            orPlaceholder(patientInfo.PatientName, "[Patient Name]"),
		HospitalName:           orPlaceholder(patientInfo.HospitalName, "[Hospital Name]"),
		AdmissionDate:          orPlaceholder(patientInfo.AdmissionDate, "[Admission Date]"),
		DischargeDate:          orPlaceholder(patientInfo.DischargeDate, "[Discharge Date]"),
		ItemName:               itemDetails.ItemName,
		BilledAmount:           utils.FormatINR(itemDetails.OriginalCost),
		CoveredAmount:          utils.FormatINR(itemDetails.CoveredCost),
		DisputedAmount:         utils.FormatINR(uncoveredAmount),
		NumberedActionPoints:   numberedList(dispute.ActionPoints),
		NumberedSupportingDocs: numberedList(dispute.SupportingDocs),
		ActionPoint1:           pointAt(dispute.ActionPoints, 0),
		ActionPoint2:           pointAt(dispute.ActionPoints, 1),
		ActionPoint3:           pointAt(dispute.ActionPoints, 2),
	}

	var email, call bytes.Buffer
	_ = emailTmpl.Execute(&email, data)
	_ = callTmpl.Execute(&call, data)

	return models.DisputeScript{
		EmailScript: email.String(),
		CallScript:  call.String(),
		ShortSummary: fmt.Sprintf("Dispute %s: %s | Risk: %s | Success Rate: %d%%",
			dispute.Reason, data.DisputedAmount, strings.ToUpper(string(dispute.RiskLevel)), dispute.SuccessRate),
	}
}

func orPlaceholder(value, placeholder string) string {
	if value == "" {
		return placeholder
	}
	return value
}

func numberedList(points []string) string {
	var b strings.Builder
	for i, p := range points {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, p)
	}
	return b.String()
}

func pointAt(points []string, idx int) string {
	if idx < len(points) {
		return points[idx]
	}
	return ""
}
