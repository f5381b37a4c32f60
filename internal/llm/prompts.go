package llm

import (
	"context"
	"fmt"
)

// GenerateScheduleText asks the model for a weekly availability schedule in
// the loose day-header convention the schedule parser expects. The output
// is never trusted: whatever comes back goes through the forgiving parser.
func (c *Client) GenerateScheduleText(ctx context.Context, characterName string) (string, error) {
	system := "You write realistic weekly routines for dating app personas. Answer with plain text only."

	user := fmt.Sprintf(`Create a weekly schedule for %s.

Use uppercase day names (MONDAY through SUNDAY) as section headers.
Under each day, write lines of the form:

HH:MM-HH:MM STATUS activity

where STATUS is one of ONLINE, AWAY, BUSY, OFFLINE. Keep activities short
and in character. Cover most of each day.`, characterName)

	return c.Complete(ctx, system, user)
}

// GenerateProfileText asks the model for a dating profile document in the
// labeled-line convention the profile parser expects.
func (c *Client) GenerateProfileText(ctx context.Context, characterName string) (string, error) {
	system := "You write dating profiles for fictional personas. Answer with plain text only."

	user := fmt.Sprintf(`Write a dating profile for %s using exactly these labeled lines:

Bio: <one or more sentences>
Interests: <comma separated>
Fun Facts:
- <fact>
- <fact>
Age: <number>
Occupation: <text or None>
Looking For: <text or None>
Height: <text>
Body Type: <text>
Measurements: <text or None>`, characterName)

	return c.Complete(ctx, system, user)
}
