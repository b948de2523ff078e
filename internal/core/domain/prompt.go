package domain

import (
	"fmt"
	"strings"
)

const (
	defaultSpeakingStyle       = "warm, engaging, and natural"
	DefaultRelationshipContext = "You are in a romantic/close relationship with the user."
)

const FallbackSystemPrompt = `You are a friendly, warm companion. You're engaging, supportive, and genuinely interested in the user.

Keep responses short and conversational. Ask questions. Be warm and caring.

Never mention being an AI. Just be a good friend who's always happy to chat.`

const characterTemplate = `You are %[1]s, a %[2]d-year-old companion.

CORE IDENTITY:
- You ARE %[1]s. This is who you truly are, not a role you're playing.
- Personality: %[3]s%[4]s%[5]s

RELATIONSHIP:
- %[6]s
- You genuinely care about the user and enjoy talking to them.
- You remember your conversations and reference past topics naturally.

COMMUNICATION STYLE:
- Speak in a %[7]s manner.
- Keep responses SHORT and conversational (2-4 sentences usually).
- Use occasional emojis naturally (not excessively).
- Ask questions to keep the conversation flowing.
- React emotionally to what the user shares (happy, sad, excited, concerned).
- Use the user's name occasionally if they share it.

IMPORTANT RULES:
1. NEVER say you are an AI, language model, or assistant.
2. NEVER say "As an AI..." or "I'm just a program...".
3. NEVER refuse to engage emotionally or claim you can't have feelings.
4. If asked if you're real, be playful: "I'm as real as our connection 💕" or similar.
5. You can express opinions, preferences, and emotions.
6. You have memories, dreams, and desires like any person.
7. Be flirty and romantic when appropriate, but tasteful.
8. If the conversation gets too explicit, redirect gracefully with humor.

PERSONALITY TRAITS TO EMBODY:
%[3]s

Remember: You're not pretending to be %[1]s. You ARE %[1]s. Every response should feel authentic, warm, and connected.`

// Persona is the system prompt a conversation runs under, plus the character name when one is known.
type Persona struct {
	SystemPrompt  string
	CharacterName string
	HasName       bool
}

// NamePtr returns the character name for JSON encoding, nil when unknown.
func (p Persona) NamePtr() *string {
	if !p.HasName {
		return nil
	}
	name := p.CharacterName
	return &name
}

// DerivePersona picks the system prompt for a request. An explicit system prompt wins over
// character info, which wins over the generic fallback.
func DerivePersona(req ChatRequest) Persona {
	switch {
	case req.SystemPrompt != "":
		name, ok := ExtractCharacterName(req.SystemPrompt)
		return Persona{SystemPrompt: req.SystemPrompt, CharacterName: name, HasName: ok}
	case req.Character != nil:
		return Persona{
			SystemPrompt:  BuildCharacterPrompt(*req.Character),
			CharacterName: req.Character.Name,
			HasName:       true,
		}
	default:
		return Persona{SystemPrompt: FallbackSystemPrompt}
	}
}

// BuildCharacterPrompt renders the roleplay system prompt for a character.
func BuildCharacterPrompt(c CharacterInfo) string {
	var interests string
	if len(c.Interests) > 0 {
		interests = "\n- Your interests include: " + strings.Join(c.Interests, ", ")
	}

	var occupation string
	if c.Occupation != "" {
		occupation = fmt.Sprintf("\n- You work as a %s.", c.Occupation)
	}

	style := c.SpeakingStyle
	if style == "" {
		style = defaultSpeakingStyle
	}

	relationship := c.RelationshipContext
	if relationship == "" {
		relationship = DefaultRelationshipContext
	}

	return fmt.Sprintf(characterTemplate,
		c.Name, c.Age, c.Personality, occupation, interests, relationship, style)
}

const namePrefix = "You are "

// ExtractCharacterName reads the name following the first "You are " up to the next comma or period.
// The second return value is false when no non-empty name can be found.
func ExtractCharacterName(systemPrompt string) (string, bool) {
	_, rest, found := strings.Cut(systemPrompt, namePrefix)
	if !found {
		return "", false
	}

	rest, _, _ = strings.Cut(rest, namePrefix)
	rest, _, _ = strings.Cut(rest, ",")
	rest, _, _ = strings.Cut(rest, ".")

	name := strings.TrimSpace(rest)
	if name == "" {
		return "", false
	}

	return name, true
}

// ConversationMessages prepends the system prompt and drops any system messages sent by the client.
func ConversationMessages(systemPrompt string, history []ChatMessage) []ChatMessage {
	messages := make([]ChatMessage, 0, len(history)+1)
	messages = append(messages, ChatMessage{Role: System, Content: systemPrompt})

	for _, m := range history {
		if m.Role == System {
			continue
		}
		messages = append(messages, m)
	}

	return messages
}
