/*
Package authsdk is a small client for the Edura authentication service and
the home of the request and response types the service speaks.

	client := authsdk.NewSDKClient("https://auth.example.com")

	_, err := client.Register(ctx, authsdk.RegisterRequest{
		Username: "a@x.com",
		Password: "Passw0rd!",
		FullName: "A B",
	})

	login, err := client.Login(ctx, authsdk.LoginRequest{Username: "a@x.com", Password: "Passw0rd!"})
	me, err := client.Me(ctx, login.Token)

Password recovery is two calls. The first always succeeds for a well formed
address so callers cannot learn which addresses are registered:

	_, err = client.ForgotPassword(ctx, authsdk.ForgotPasswordRequest{Email: "a@x.com"})
	_, err = client.ResetPassword(ctx, authsdk.ResetPasswordRequest{
		Email:       "a@x.com",
		Code:        "004217",
		NewPassword: "NewPass1!",
	})

Non-2xx responses are returned as *APIError carrying the status code and the
server's message:

	var apiErr *authsdk.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden {
		// account locked
	}
*/
package authsdk
