package services

// Services defined in this package:
// - AuthService: verifies credentials, mints and resolves sessions
// - StudentService: student records
// - GuruService: teacher accounts
// - AchievementService: achievement records with ownership rules
// - ReportService: dashboard statistics and XLSX/PDF exports
