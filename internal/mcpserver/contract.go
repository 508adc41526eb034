package mcpserver

// DocumentFormat describes the archive document the server loads, so tool
// consumers can interpret entity fields and note keys.
const DocumentFormat = `# Archive Document Format

The archive is one JSON (or YAML) document whose top level is a list of
entities. It is read once at startup; edits need a restart.

## Entity

` + "```" + `json
{
  "id": "ann",                        // REQUIRED, unique
  "name": "Ann Walker",               // REQUIRED, used by connections
  "type": "Person",                   // Person | Movement | Event (others allowed)
  "dates": "1920-1980",               // free text; the year before "-" orders the timeline
  "summary": "Poet of the city",
  "detail": "<p>Trusted HTML</p>",    // rendered as-is on the detail page
  "key_terms": ["poetry", "Harlem"],
  "sources": ["Walker, Letters (1970)"],
  "connections": ["Harlem Renaissance"] // entity names, not ids
}
` + "```" + `

## Rules

1. Connections name other entities by exact name; unknown names are ignored.
2. Entries whose dates do not start with a year sort after all dated entries.
3. Persons appear in the persons grid; Movements and Events share one grid.
   Other types only appear on the timeline, the mind map and detail pages.

## Notes

Notes are free text stored under keys:

- section notes: homeNotes, personsNotes, movementsNotes, timelineNotes,
  mindmapNotes, resourcesNotes
- entity notes: notes-<id>

Saving a note overwrites it. Absent notes read as empty text.
`
