package chat

import (
	"fmt"
	"strings"
)

// maxSelectionAttempts bounds re-prompting before an open selection is
// abandoned.
const maxSelectionAttempts = 2

// newPendingSelection builds the disambiguation question for a level.
func newPendingSelection(level Level, options []Option) *PendingSelection {
	names := make([]string, 0, len(options))
	for _, o := range options {
		names = append(names, o.Name)
	}
	prompt := fmt.Sprintf("Which %s do you mean? Options: %s. Reply with a name, an ID, or \"all\".",
		level.String(), strings.Join(names, ", "))
	return &PendingSelection{Level: level, Options: options, Prompt: prompt}
}

// resolveSelection matches a user reply against the pending options.
// Accepted forms: exact ID, case-insensitive exact name, or "all".
func resolveSelection(p *PendingSelection, reply string) (ids []string, label string, ok bool) {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, "", false
	}
	if strings.EqualFold(reply, "all") {
		all := make([]string, 0, len(p.Options))
		for _, o := range p.Options {
			all = append(all, o.ID)
		}
		return all, "all " + p.Level.Plural(), true
	}
	for _, o := range p.Options {
		if o.ID == reply {
			return []string{o.ID}, o.Name, true
		}
	}
	for _, o := range p.Options {
		if strings.EqualFold(o.Name, reply) {
			return []string{o.ID}, o.Name, true
		}
	}
	return nil, "", false
}

// matchEntities auto-resolves options the user already named in the
// question, by ID or case-insensitive name.
func matchEntities(options []Option, entities []string) (ids []string, label string) {
	var names []string
	for _, e := range entities {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		for _, o := range options {
			if o.ID == e || strings.EqualFold(o.Name, e) {
				if !containsID(ids, o.ID) {
					ids = append(ids, o.ID)
					names = append(names, o.Name)
				}
				break
			}
		}
	}
	return ids, strings.Join(names, ", ")
}

// anyEntityMatches reports whether at least one mentioned entity is
// among the options. Used to tell a selection reply apart from an
// unrelated new question.
func anyEntityMatches(options []Option, entities []string) bool {
	ids, _ := matchEntities(options, entities)
	return len(ids) > 0
}

func containsID(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
