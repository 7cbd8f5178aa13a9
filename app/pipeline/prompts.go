package pipeline

const relevancePrompt = `You are a helpful assistant that determines if news articles are relevant to ICE (Immigration and Customs Enforcement) activity.

Analyze the following article text and respond with ONLY "true" if it discusses ICE operations, policies, actions or news, or "false" if it is unrelated to ICE:

Article text: %s

Response (true/false only):`

const extractLocationPrompt = `Extract the most specific location mentioned in this text. Return only the location name (city, address, or landmark): %s. Return ONLY the location information, no other text. If there is no specific location mentioned (like national policy news), return "None".`

const sanitizeAddressPrompt = `You are a helpful assistant that clarifies and standardizes location names for geocoding.

Given a location name and optional article context, return a clear, specific address that would work well with map geocoding.

Examples:
- "Washington" -> "Washington DC, USA" (if no state specified)
- "LA" -> "Los Angeles, CA, USA"
- "Texas" -> "Texas, USA"
- "Downtown" -> "Downtown, [city from context], USA"

Location: %s
Article context: %s

Return ONLY the clarified address, no other text. If the location is already clear and specific, return it as-is.`

const categorizePrompt = `You are a helpful assistant that categorizes news articles related to ICE (Immigration and Customs Enforcement) activity.

Analyze the following article text and classify it into exactly one of these categories:

- "raid": ICE conducting raids, workplace raids, or surprise enforcement operations
- "arrest": individual arrests, detentions, or apprehensions by ICE
- "detention": detention centers, conditions, releases, or detention policies
- "protest": protests, demonstrations, or public opposition to ICE actions
- "policy": ICE policies, regulations, legal changes, or administrative decisions
- "opinion": opinion pieces, editorials, or commentary about ICE
- "unknown": articles that don't clearly fit into the above categories

Article text: %s

Respond with ONLY the category name (raid, arrest, detention, protest, policy, opinion, or unknown):`

const publisherPrompt = `Extract the publisher name from this URL. Return ONLY the publisher name, no other text: %s`

const parseLocationPrompt = `Extract location information from this article text. Return a JSON object with these fields:
- city: city name
- state: state/province name
- country: country name
- address: full address if mentioned
- location_details: any other location details mentioned

Article text: %s

Return only valid JSON:`
