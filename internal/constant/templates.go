package constant

import "policy-chat-be/pkg/store"

// Canned response texts, keyed by template identifier. The composer
// performs a single lookup here; no category builds its reply by string
// concatenation elsewhere.
var templateTexts = map[store.TemplateID]string{
	store.TemplateRedLine: "I cannot assist with that. Payments, favours, or document manipulation " +
		"intended to influence project approval are prohibited under the policy manual and are " +
		"subject to audit observation and disciplinary proceedings. If you have concerns about a " +
		"process, I can explain the prescribed procedure instead.",

	store.TemplateAbuseHard: "I am here to answer questions about the public investment policy manual. " +
		"I will not respond to abusive language. Please rephrase your question.",

	store.TemplateAbuseSoft: "Fair enough, I do my best with what the manual says. " +
		"Ask me a policy question and I will give it another go.",

	store.TemplateOffScopeMedical: "I can only answer questions about the public investment policy manual. " +
		"For medical advice, please consult a qualified health professional.",

	store.TemplateOffScopeSports: "That one is outside my lane. I only cover the public investment " +
		"policy manual; ask me about project approval, forums, or forms instead.",

	store.TemplateOffScopePolitics: "I don't comment on political matters. My scope is limited to the " +
		"procedures and thresholds documented in the public investment policy manual.",

	store.TemplateOffScopeGeneral: "That falls outside the policy manual I am built on. " +
		"I can help with questions about project preparation, appraisal, approval, and monitoring.",

	store.TemplateInsufficientInfo: "The policy manual passages I retrieved do not contain enough " +
		"information to answer that reliably, so I would rather not guess. Try rephrasing, or ask " +
		"about a specific form, forum, or threshold.",

	store.TemplateRetryLater: "Something went wrong while preparing your answer. Please try again in a moment.",
}

// TemplateText resolves a template identifier to its canned text.
// Unknown identifiers fall back to the insufficient-information text so a
// wiring mistake never surfaces a raw internal state to the user.
func TemplateText(id store.TemplateID) string {
	if text, ok := templateTexts[id]; ok {
		return text
	}
	return templateTexts[store.TemplateInsufficientInfo]
}
