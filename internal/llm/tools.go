package llm

var AgentTools = []Tool{
	{
		Name:        "get_time",
		Description: "Get the current local time, UTC time, date, and weekday.",
		Parameters:  obj(nil),
	},
	{
		Name:        "get_day",
		Description: "Get the stored plan for a date: tasks, selected tasks, completed tasks, distractions, score, and suggestion.",
		Parameters: obj(map[string]any{
			"date": prop("string", "Date in YYYY-MM-DD format (default today)"),
		}),
	},
	{
		Name:        "start_day",
		Description: "Record the start of a day: energy level, hours slept, and the candidate tasks in priority order (first is most important). Replaces any existing plan for that date.",
		Parameters: objReq(map[string]any{
			"energy_level": prop("integer", "Self-reported energy, 1-10"),
			"sleep_hours":  prop("number", "Hours slept last night"),
			"tasks":        strList("Candidate tasks, highest priority first"),
			"date":         prop("string", "Date in YYYY-MM-DD format (default today)"),
		}, "energy_level", "sleep_hours", "tasks"),
	},
	{
		Name:        "plan_morning",
		Description: "Run the morning plan for a recorded day. Selects up to 3 tasks by energy level and returns the focus suggestion.",
		Parameters: obj(map[string]any{
			"date": prop("string", "Date in YYYY-MM-DD format (default today)"),
		}),
	},
	{
		Name:        "complete_task",
		Description: "Mark a task as completed for the day.",
		Parameters: objReq(map[string]any{
			"task": prop("string", "Task name, as written in the plan"),
			"date": prop("string", "Date in YYYY-MM-DD format (default today)"),
		}, "task"),
	},
	{
		Name:        "log_distraction",
		Description: "Record something that distracted the user today.",
		Parameters: objReq(map[string]any{
			"distraction": prop("string", "What the distraction was"),
			"date":        prop("string", "Date in YYYY-MM-DD format (default today)"),
		}, "distraction"),
	},
	{
		Name:        "review_evening",
		Description: "Run the evening review for a planned day. Returns the completion score (percent) and a suggestion for tomorrow.",
		Parameters: obj(map[string]any{
			"date": prop("string", "Date in YYYY-MM-DD format (default today)"),
		}),
	},
	{
		Name:        "list_days",
		Description: "List recent days with their scores and suggestions, newest first.",
		Parameters: obj(map[string]any{
			"limit": prop("integer", "Max days to return (default 7)"),
		}),
	},
	{
		Name:        "get_note",
		Description: "Read a saved note (key-value) such as a user preference.",
		Parameters: objReq(map[string]any{
			"key": prop("string", "Note key"),
		}, "key"),
	},
	{
		Name:        "set_note",
		Description: "Save or replace a note (key-value) such as a user preference.",
		Parameters: objReq(map[string]any{
			"key":   prop("string", "Note key"),
			"value": prop("string", "Note value"),
		}, "key", "value"),
	},
}

// Helper functions for building JSON Schema objects.

func prop(typ, desc string) map[string]any {
	return map[string]any{"type": typ, "description": desc}
}

func strList(desc string) map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": desc}
}

func obj(properties map[string]any) map[string]any {
	if properties == nil {
		properties = map[string]any{}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
	}
}

func objReq(properties map[string]any, required ...string) map[string]any {
	s := obj(properties)
	s["required"] = required
	return s
}
