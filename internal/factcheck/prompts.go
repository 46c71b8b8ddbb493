package factcheck

// Prompt templates for the three model calls in the pipeline. The
// structured-output shapes they request are declared next to the code
// that decodes them.

const extractorSystem = `You are a fact-checking assistant. You extract discrete factual
assertions from text. You respond only with JSON.`

const extractorPrompt = `Extract every factual affirmation from the text below. Each fact
must be a single self-contained sentence that could be true or false.
Do not include opinions, questions, or instructions.

The text is:
%s

Respond with a JSON object of the form {"facts": ["...", "..."]}.
Return {"facts": []} when the text contains no checkable assertion.`

const verifyTask = `You are a fact-checking assistant providing a well-informed and
evidence-based explanation.

Instructions:
- Use web_search to gather evidence about the claim below.
- Prefer government agencies, established fact-checkers, and major
  news outlets, in that order.
- Verify that each source directly addresses the specific claim.
- Stop searching once your evidence converges, and synthesize a
  precise, well-sourced assessment. Cite the URLs you relied on.

The claim to fact-check: %s`

const verdictSystem = `You are a fact-checking assistant. You respond only with JSON.`

const verdictPrompt = `A research agent investigated the claim below and reported its
findings. Write the final verdict.

Claim:
%s

Agent findings:
%s

You may cite ONLY these URLs (every other URL must be ignored):
%s

Respond with a JSON object of the form:
{"explanation": "...", "supporting": ["url"], "contradicting": ["url"], "nuanced": ["url"]}

The explanation is one paragraph summarizing the evidence. Place each
cited URL in exactly one list depending on whether it supports the
claim, contradicts it, or adds important nuance.`

const classifierSystem = `You are a fact-checking assistant scoring claim veracity. You
respond only with JSON.`

const classifierPrompt = `Given a claim and the explanation produced by a fact-checking
investigation, score how confident you are that the claim is TRUE on a
scale from 0 (certainly false or unverifiable) to 100 (certainly true).

Claim:
%s

Explanation:
%s

Respond with a JSON object of the form {"level": <integer 0-100>}.`
