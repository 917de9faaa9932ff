package services

// ServiceContainer holds instances of all the application services. Handlers
// receive this at route registration instead of individual constructor args.
type ServiceContainer struct {
	Account    AccountSvc
	Ledger     LedgerSvc
	Balance    BalanceSvc
	Reporting  ReportingSvc
	Classifier ClassifierSvc
	Import     ImportSvc
	Review     ReviewSvc
	Rule       RuleSvc
}
