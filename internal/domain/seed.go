package domain

// DefaultQuestions is the built-in fallback set used to seed an empty
// question bank, so a first game can always start without any operator
// action. Returns a fresh slice each call; callers may mutate freely.
func DefaultQuestions() []Question {
	return []Question{
		{
			ID:           "seed-001",
			Prompt:       "What does HTML stand for?",
			Options:      []string{"HyperText Markup Language", "High Tech Modern Language", "Home Tool Markup Language", "Hyperlink and Text Markup Language"},
			CorrectIndex: 0,
			Category:     "web-development",
			Difficulty:   "easy",
		},
		{
			ID:           "seed-002",
			Prompt:       "Which JavaScript framework is developed by Facebook?",
			Options:      []string{"Angular", "Vue", "React", "Svelte"},
			CorrectIndex: 2,
			Category:     "javascript",
			Difficulty:   "easy",
		},
		{
			ID:           "seed-003",
			Prompt:       "What is the time complexity of binary search?",
			Options:      []string{"O(n)", "O(log n)", "O(n²)", "O(1)"},
			CorrectIndex: 1,
			Category:     "algorithms",
			Difficulty:   "medium",
		},
		{
			ID:           "seed-004",
			Prompt:       "Which database type is MongoDB?",
			Options:      []string{"Relational", "Graph", "Document", "Key-Value"},
			CorrectIndex: 2,
			Category:     "databases",
			Difficulty:   "easy",
		},
		{
			ID:           "seed-005",
			Prompt:       "What does REST stand for in API design?",
			Options:      []string{"Representational State Transfer", "Remote State Transfer", "Relational State Transfer", "Recursive State Transfer"},
			CorrectIndex: 0,
			Category:     "apis",
			Difficulty:   "medium",
		},
		{
			ID:           "seed-006",
			Prompt:       "What does CSS stand for?",
			Options:      []string{"Computer Style Sheets", "Cascading Style Sheets", "Creative Style Sheets", "Colorful Style Sheets"},
			CorrectIndex: 1,
			Category:     "web-development",
			Difficulty:   "easy",
		},
		{
			ID:           "seed-007",
			Prompt:       "Which HTTP method is used to update data?",
			Options:      []string{"GET", "POST", "PUT", "DELETE"},
			CorrectIndex: 2,
			Category:     "web-apis",
			Difficulty:   "easy",
		},
		{
			ID:           "seed-008",
			Prompt:       "What is the default port for HTTPS?",
			Options:      []string{"80", "443", "8080", "3000"},
			CorrectIndex: 1,
			Category:     "networking",
			Difficulty:   "medium",
		},
		{
			ID:           "seed-009",
			Prompt:       "Which of the following uses a graph-based DBMS?",
			Options:      []string{"Cassandra", "SQLite", "MySQL", "Neo4j"},
			CorrectIndex: 3,
			Category:     "databases",
			Difficulty:   "medium",
		},
		{
			ID:           "seed-010",
			Prompt:       "In C++, an object is an instance of what?",
			Options:      []string{"Function", "Class", "Variable", "Method"},
			CorrectIndex: 1,
			Category:     "oop",
			Difficulty:   "easy",
		},
		{
			ID:           "seed-011",
			Prompt:       "Which of the following is the most common internet protocol?",
			Options:      []string{"POP3", "SMTP", "FTP", "HTTP"},
			CorrectIndex: 3,
			Category:     "networking",
			Difficulty:   "easy",
		},
		{
			ID:           "seed-012",
			Prompt:       "Which of these is not a characteristic of Web 2.0?",
			Options:      []string{"User-generated content", "Interactivity", "Read-only access", "Social networking"},
			CorrectIndex: 2,
			Category:     "web-development",
			Difficulty:   "hard",
		},
	}
}
