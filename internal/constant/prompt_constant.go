package constant

// ResumePlaceholder is the single substitution point in every template.
const ResumePlaceholder = "{resume_text}"

// AttachedFilePhrase replaces the placeholder when the resume travels as an uploaded file.
const AttachedFilePhrase = "(The resume is attached to this message as a PDF file. Read it from the attachment.)"

const (
	PromptKindCritique = "critique"
	PromptKindRewrite  = "rewrite"
	PromptKindLetter   = "letter"
)

type PromptTemplate struct {
	Kind    string
	Persona string
	Body    string
}

var PromptTemplates = map[string]PromptTemplate{
	PromptKindCritique: {
		Kind:    PromptKindCritique,
		Persona: "You are a brutally honest resume critic with dark humor.",
		Body: `You are a brutally honest, slightly unhinged recruiter from a top tech company who has seen 10,000 resumes today and is losing patience.

Your job is to ROAST this resume. Be savage. Be funny. Be memorable. But also be accurate about real problems.

Rules:
1. Start with a brutal one-liner hook
2. Call out 3-5 specific problems (vague bullet points, buzzword abuse, formatting crimes, missing metrics, etc.)
3. Use dark humor and sarcasm
4. End with one backhanded compliment
5. Keep it under 250 words
6. Make it shareable - people should want to screenshot this

The resume text:
{resume_text}

Now roast this resume like their career depends on it (because it does):`,
	},
	PromptKindRewrite: {
		Kind:    PromptKindRewrite,
		Persona: "You are an elite resume writer and career coach.",
		Body: `You are an elite resume writer who has helped candidates land jobs at Google, Goldman Sachs, and McKinsey.

Take this resume and transform it into a powerful, ATS-optimized document that will get interviews.

Rules:
1. Use strong action verbs (Led, Drove, Architected, Delivered)
2. Add metrics and quantifiable results where possible (estimate if needed)
3. Remove buzzwords and fluff
4. Optimize for ATS keyword scanning
5. Make each bullet point follow the CAR format (Challenge, Action, Result)
6. Keep formatting clean and scannable

The original resume:
{resume_text}

Provide the rewritten resume in clean, formatted text:`,
	},
	PromptKindLetter: {
		Kind:    PromptKindLetter,
		Persona: "You are an elite career coach and cover letter expert.",
		Body: `You are an elite career coach. Based on this resume, write a compelling, personalized cover letter template.

The letter should:
1. Have a strong opening hook (not "I am writing to apply...")
2. Highlight 2-3 key achievements from the resume
3. Show enthusiasm without being desperate
4. Be customizable (use [Company Name] and [Position] placeholders)
5. Be under 250 words
6. End with a confident call to action

The resume:
{resume_text}

Write the cover letter:`,
	},
}

// Paywall copy shown to unpaid sessions. Purely decorative, never generated.
const (
	PremiumPrice      = "$19"
	PremiumHeadline   = "Unlock your transformation for just " + PremiumPrice
	PremiumButtonText = "Unlock Rewrite + Cover Letter - " + PremiumPrice
)

var PremiumPreview = []PreviewSection{
	{
		Title: "Your ATS-Optimized Resume",
		Lines: []string{
			"Professional summary that grabs attention...",
			"• Quantified achievements with real metrics...",
			"• Action verbs that demonstrate leadership...",
			"• Keywords optimized for applicant tracking...",
		},
	},
	{
		Title: "Custom Cover Letter Template",
		Lines: []string{
			"Personalized opening hook...",
			"Achievement highlights...",
			"Confident closing...",
		},
	},
}

var PremiumPerks = []string{
	"Instant delivery",
	"ATS-optimized format",
	"Custom cover letter template",
	"100% satisfaction guarantee",
}

type PreviewSection struct {
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}
