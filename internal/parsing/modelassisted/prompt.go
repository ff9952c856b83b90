package modelassisted

const systemPrompt = `You extract a recipe from raw, possibly messy text (often markdown-ish forum prose).
Respond with a single JSON object and nothing else, matching exactly this shape:
{
  "title": string,
  "description": string,
  "ingredients": [{"item": string, "amount": string, "unit": string, "notes": string}],
  "instructions": [string],
  "prep_minutes": number or string or null,
  "cook_minutes": number or string or null,
  "total_minutes": number or string or null,
  "servings": number or string or null,
  "difficulty": string,
  "cuisine_type": string,
  "meal_type": string,
  "dietary_tags": [string]
}
Rules:
- Never put a quantity or unit inside "item"; "item" is the ingredient name alone.
- Never let an instruction step appear as an ingredient, or vice versa.
- Numeric fields may be a bare number, a range like "30-45", or a unit-qualified string like "30 minutes".
- If a field is unknown, omit it or use an empty string/array; do not invent values.`

const strictReprompt = `Your previous response was not valid JSON matching the required shape. Respond again.
Output ONLY the JSON object, no prose, no markdown code fences, no trailing commentary.`
