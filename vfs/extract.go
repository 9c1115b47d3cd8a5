/*
 * Copyright 2025 Adrià Giménez Pastor.
 *
 * This file is part of adriagipas/ctrvfs.
 *
 * adriagipas/ctrvfs is free software: you can redistribute it and/or
 * modify it under the terms of the GNU General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * adriagipas/ctrvfs is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with adriagipas/ctrvfs.  If not, see
 * <https://www.gnu.org/licenses/>.
 */
/*
 *  extract.go - Extracció de l'arbre sencer al sistema de fitxers
 *               amfitrió. La cancel·lació és cooperativa: es comprova
 *               entre fitxer i fitxer i el que ja s'ha escrit es
 *               queda.
 */

package vfs

import (
  "context"
  "fmt"
)


/************/
/* FUNCIONS */
/************/

// Compta els fitxers d'un subarbre.
func (self *Rom) countFiles( segs []string ) (int64,error) {

  listing,err:= self.listDir ( segs )
  if err != nil { return 0,err }
  ret:= int64(len(listing.files))
  for _,d:= range listing.dirs {
    child:= append(append([]string{},segs...),d)
    n,err:= self.countFiles ( child )
    if err != nil { return 0,err }
    ret+= n
  }

  return ret,nil

} // end countFiles


// Extrau un subarbre. token pot ser nil.
func (self *Rom) extractDir( ctx context.Context, segs []string,
  out string, token *ProgressToken ) error {

  listing,err:= self.listDir ( segs )
  if err != nil { return err }

  if err:= self.fs.CreateDirectory ( out ); err != nil {
    return err
  }

  for _,f:= range listing.files {

    // Cancel·lació cooperativa entre fitxers.
    if err:= ctx.Err (); err != nil { return err }

    child:= append(append([]string{},segs...),f)
    data,err:= self.ReadAllBytes ( joinAbs ( child ) )
    if err != nil {
      return fmt.Errorf ( "An error occurred while extracting '%s': %w",
        joinAbs ( child ), err )
    }
    if err:= self.fs.WriteAllBytes ( out+"/"+f, data ); err != nil {
      return fmt.Errorf ( "An error occurred while extracting '%s': %w",
        joinAbs ( child ), err )
    }
    if token != nil { token.Increment () }

  }

  for _,d:= range listing.dirs {
    child:= append(append([]string{},segs...),d)
    if err:= self.extractDir ( ctx, child, out+"/"+d, token ); err != nil {
      return err
    }
  }

  return nil

} // end extractDir


// Extrau l'arbre sencer en la carpeta indicada, reproduint la
// jerarquia del VFS. agg pot ser nil. Cada directori de l'arrel
// publica el seu propi token; els fitxers de l'arrel en comparteixen
// un.
func (self *Rom) ExtractWithProgress( ctx context.Context, out string,
  agg *Aggregator ) error {

  listing,err:= self.listDir ( nil )
  if err != nil { return err }

  if err:= self.fs.CreateDirectory ( out ); err != nil {
    return err
  }

  // Tots els tokens es registren abans de començar, perquè el
  // callback de finalització no es dispare abans d'hora.
  var root_token *ProgressToken
  tokens:= make(map[string]*ProgressToken)
  if agg != nil {
    if len(listing.files) > 0 {
      root_token= agg.NewToken ()
      root_token.SetTotal ( int64(len(listing.files)) )
    }
    for _,d:= range listing.dirs {
      token:= agg.NewToken ()
      total,err:= self.countFiles ( []string{d} )
      if err != nil { return err }
      token.SetTotal ( total )
      tokens[d]= token
    }
  }

  // Fitxers de l'arrel.
  for _,f:= range listing.files {
    if err:= ctx.Err (); err != nil { return err }
    data,err:= self.ReadAllBytes ( joinAbs ( []string{f} ) )
    if err != nil {
      return fmt.Errorf ( "An error occurred while extracting '/%s': %w",
        f, err )
    }
    if err:= self.fs.WriteAllBytes ( out+"/"+f, data ); err != nil {
      return fmt.Errorf ( "An error occurred while extracting '/%s': %w",
        f, err )
    }
    if root_token != nil { root_token.Increment () }
  }
  if root_token != nil { root_token.Complete () }

  // Subarbres.
  for _,d:= range listing.dirs {

    token:= tokens[d]
    if err:= self.extractDir ( ctx, []string{d}, out+"/"+d,
      token ); err != nil {
      return err
    }
    if token != nil { token.Complete () }

  }

  return nil

} // end ExtractWithProgress


// Com ExtractWithProgress sense seguiment del progrés.
func (self *Rom) Extract( ctx context.Context, out string ) error {
  return self.ExtractWithProgress ( ctx, out, nil )
} // end Extract
