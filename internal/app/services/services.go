package services

// Services defined in this package:
// - StudentService: applicant record CRUD and listing
// - BulkService: CSV/JSON import and export
// - SearchService: structured queries, suggestions and facets
// - FileService: student document storage
// - NotificationService: templated email delivery
// - AuditService: append-only action trail
// - UserService: principal resolution and role management
