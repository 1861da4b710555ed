package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/session --output domain/session --outpkg sessionmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name ProviderFetcher --dir ../usecase --output usecase --outpkg usecasemock --filename provider_fetcher_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name AuthorizationProvider --dir ../usecase --output usecase --outpkg usecasemock --filename authorization_provider_mock.go
