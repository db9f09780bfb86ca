package payroll

// TempIDPrefix marks client-side deduction ids that storage has not
// assigned yet. Rows carrying it are inserted fresh on save.
const TempIDPrefix = "tmp-"
