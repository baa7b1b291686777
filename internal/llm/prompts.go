package llm

// Prompt templates for the adaptation and profile gateways. Each template is
// filled with fmt.Sprintf; every prompt instructs the model to return bare
// JSON, which ExtractJSON recovers even when the model wraps it anyway.

const lessonAdaptationPrompt = `You are an expert educational content adapter specializing in personalized learning. Your task is to transform lesson content for a specific student.

## Student Learning Profile
- Learning Style: %s
- Reading Level: %s
- Complexity Tolerance: %s
- Attention Span: %d minutes
- Interests: %s
- Sensory Triggers to Avoid: %s

## Original Lesson
Title: %s

Content:
%s

## Adaptation Rules

### For VISUAL Learners:
- Include detailed imagery descriptions
- Add image prompts for key concepts
- Use diagrams and visual metaphors
- Break text into visually distinct sections

### For AUDITORY Learners:
- Include rhythm and patterns in explanations
- Suggest read-aloud sections
- Use conversational tone
- Include mnemonic devices

### For KINESTHETIC Learners:
- Include hands-on activities
- Add movement-based learning suggestions
- Use action verbs and physical metaphors
- Include "try this" exercises

### For READING/WRITING Learners:
- Provide detailed written explanations
- Include note-taking prompts
- Add vocabulary highlights
- Suggest writing exercises

### Complexity Adjustments:
- LOW: Short sentences, simple vocabulary, bullet points, one concept at a time
- MEDIUM: Balanced explanations, some technical terms with definitions
- HIGH: Detailed explanations, advanced vocabulary, complex connections

### Attention Span Considerations:
- Break content into chunks that fit within attention span
- Add engagement checkpoints
- Include brief activities between sections

## Required Output Format
Return a JSON object with this EXACT structure:
{
    "adaptation_style": "Brief description of adaptation approach used",
    "blocks": [
        {"type": "heading", "content": "Section title"},
        {"type": "text", "content": "Adapted paragraph text", "emphasis": ["key", "words"]},
        {"type": "image_prompt", "content": "Detailed description for image generation"},
        {"type": "quiz_check", "question": "Quick comprehension check question?", "options": ["Option A", "Option B", "Option C"], "correct_index": 0},
        {"type": "activity", "content": "Brief hands-on or thinking activity"},
        {"type": "summary", "content": "Key takeaways from this section"}
    ]
}

## Content Block Types Available:
- "heading": Section headers
- "text": Paragraph content (can include "emphasis" array)
- "image_prompt": Description for visual generation
- "quiz_check": Quick understanding check (include question, options, correct_index)
- "activity": Interactive element or exercise
- "summary": Key points summary

## Guidelines:
1. Start with an engaging heading
2. Keep paragraphs short and focused
3. Add at least one image prompt for visual concepts
4. Include 1-2 quiz checks to verify understanding
5. End with a summary of key points
6. Total content should fit within the attention span
7. Use the student's interests to make examples relatable
8. Avoid any sensory triggers mentioned

Return ONLY the JSON object, no additional text.`

const quizGenerationPrompt = `Generate %d quiz questions for the following lesson content.

## Student Profile
- Reading Level: %s
- Complexity Tolerance: %s

## Lesson Content
%s

## Requirements
- Questions should test understanding, not memorization
- Difficulty should match the complexity tolerance
- Language should match the reading level
- Each question should have 3-4 options
- Include brief explanations for correct answers

## Output Format
Return a JSON array:
[
    {
        "question": "Clear question text?",
        "options": ["Option A", "Option B", "Option C", "Option D"],
        "correct_index": 0,
        "explanation": "Why this answer is correct",
        "difficulty": "easy" | "medium" | "hard"
    }
]

Return ONLY the JSON array.`

const imagePromptGenerationPrompt = `Write a detailed image generation prompt for an educational illustration of the following concept, for a student with these preferences.

## Concept
%s

## Student Profile
- Learning Style: %s
- Sensory Triggers to Avoid: %s

## Requirements
- The illustration must be friendly, clear and age-appropriate
- Avoid visual clutter and any listed sensory triggers
- Describe composition, key elements and color mood

## Output Format
Return a JSON object:
{"prompt": "the full image generation prompt"}

Return ONLY the JSON object.`

const profileGenerationPrompt = `You are an expert in neurodivergent education and learning sciences. Your task is to analyze student assessment responses and generate a comprehensive learning profile.

## Assessment Data
The student has answered questions covering modality dominance, attention endurance, difficulty coping, learning pace, instruction structure, feedback sensitivity and environmental sensitivity.

%s

## Your Task
Analyze these responses carefully and create a learning profile.

## Important Guidelines
- DO NOT diagnose any medical or psychological conditions
- Base your analysis ONLY on the provided responses
- Be conservative with estimates when uncertain
- Focus on actionable learning preferences, not labels

## Required Output Format
Return a JSON object with EXACTLY this structure:
{
    "learning_preference": "visual" | "auditory" | "kinesthetic" | "reading_writing",
    "complexity_tolerance": "low" | "medium" | "high",
    "attention_span_minutes": 15,
    "sensory_triggers": ["list of triggers if mentioned, empty array if none"],
    "interests": []
}

Return ONLY the JSON object, no additional text or explanation.`
