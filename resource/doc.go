// Package resource owns every hardware component and arbitrates access to
// their interfaces.
//
// The Manager loads components from a YAML description (all-or-nothing),
// indexes their exported state and command interfaces by full name, and
// hands them out as loans. State interfaces can be claimed any number of
// times; command interfaces are exclusive until the loan is released.
// An interface is claimable only while its owning component is Inactive
// or Active.
//
// Controllers that export reference interfaces register them with the
// manager too. Reference interfaces join the command namespace but stay
// unavailable until the controller is activated, and they disappear, with
// outstanding loans detached, when the controller is removed.
//
// # The control loop
//
// Read and Write fan the loop cycle out to every component. A component
// that reports an error is demoted through its error callback together
// with every member of its failure group; components outside the group
// keep running. A write that asks for deactivation stops its component
// gracefully instead. EnforceCommandLimits bounds claimed joint commands
// between the two phases.
package resource
