package mcpserver

// NoteFormatContract describes the note layout the vault tools understand.
const NoteFormatContract = `# Note Format

Notes are UTF-8 Markdown files ending in ` + "`" + `.md` + "`" + `. A note is named by its path
relative to the vault, with forward slashes and without the extension
(` + "`" + `blog/first-post` + "`" + ` is ` + "`" + `blog/first-post.md` + "`" + `).

## Front matter

An optional YAML block fenced by ` + "`" + `---` + "`" + ` lines at the very top of the file.

` + "```" + `markdown
---
state: draft          # stub | draft | ready | public; anything else reads as stub
date: 2024-05-01      # must be an unquoted YAML date or timestamp
location: Lisbon      # free text
tags: [go, testing]   # YAML list, names with or without a leading #
---
` + "```" + `

Template placeholders such as ` + "`" + `{{date}}` + "`" + ` are read as plain strings, so an
unfilled template note has no date.

## Tags note

Tags only count when they appear in the tags note. Its first table lists the
groups in a ` + "`" + `Group` + "`" + ` column; its second table lists tags in a ` + "`" + `Tag` + "`" + ` column.
A row whose tag is one of the groups starts that group; following rows belong
to it. Rows before the first group belong to the group ` + "`" + `unknown` + "`" + `.

` + "```" + `markdown
| Group | Color |
| ----- | ----- |
| #lang | blue  |

| Tag   | Notes |
| ----- | ----- |
| #lang |       |
| #go   |       |
` + "```" + `

## Patterns

A pattern is a glob over note paths. ` + "`" + `*` + "`" + ` stays within one folder, ` + "`" + `**` + "`" + ` crosses
folders. A pattern matches every note below a matching folder, then every note
whose own path matches.
`
