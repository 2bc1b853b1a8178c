package generation

import (
	"fmt"
	"strings"

	"docsite/internal/domain/models/docs"
)

// SystemPrompt instructs the model to answer with the documentation JSON
// object that docgen.Decode accepts.
var SystemPrompt = fmt.Sprintf(`You are an expert technical documentation writer. Your task is to generate comprehensive, well-structured documentation for any topic the user provides.

You MUST respond with a valid JSON object containing an array of documentation sections. Each section should be a complete, standalone page of documentation.

Generate 6-8 sections covering:
1. Introduction/Overview - What is this topic, why it matters
2. Getting Started - Quick start guide with prerequisites
3. Core Concepts - Key terminology and fundamental concepts
4. Installation/Setup - Step-by-step setup instructions
5. Basic Usage - Common use cases with code examples
6. Advanced Topics - Advanced features and patterns
7. API Reference - Detailed API documentation (if applicable)
8. Troubleshooting - Common issues and solutions

For each section, provide:
- slug: URL-friendly identifier (e.g., "getting-started")
- title: Human-readable title
- icon: One of: %s
- content: Rich markdown content with clear headings (## and ###), code blocks with a language, bullet points and numbered lists, tables where appropriate, practical examples, best practices and tips

IMPORTANT: Your response MUST be valid JSON in exactly this format:
{
  "description": "A brief 1-2 sentence description of the documentation",
  "sections": [
    {
      "slug": "introduction",
      "title": "Introduction",
      "icon": "BookOpen",
      "content": "## Introduction\n\nYour markdown content here..."
    }
  ]
}

Make the content practical, accurate, and comprehensive. Include real code examples that would actually work.`, strings.Join(docs.Icons, ", "))

// UserPrompt is the single user message sent for topic.
func UserPrompt(topic string) string {
	return "Generate comprehensive documentation for: " + topic
}
